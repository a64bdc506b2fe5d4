package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hiprompt/internal/di"
	"hiprompt/internal/interfaces/http/rest/handlers"
)

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				if password == "" {
					secret, err := newSecretReader(cmd.InOrStdin(), cmd.ErrOrStderr()).Ask("Password")
					if err != nil {
						return err
					}
					password = secret
				}
				if _, err := app.Session.SignIn(ctx, email, password); err != nil {
					return err
				}
				return printSession(cmd, app)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var email, password, fullName string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				confirm := password
				if password == "" {
					reader := newSecretReader(cmd.InOrStdin(), cmd.ErrOrStderr())
					var err error
					if password, err = reader.Ask("Password"); err != nil {
						return err
					}
					if confirm, err = reader.Ask("Confirm password"); err != nil {
						return err
					}
				}

				req := handlers.RegisterRequest{
					Email:           email,
					Password:        password,
					ConfirmPassword: confirm,
					FullName:        fullName,
				}
				if err := req.Validate(); err != nil {
					return err
				}

				identity, err := app.Session.SignUp(ctx, req.Email, req.Password, req.FullName)
				if err != nil {
					return err
				}
				if !app.Session.Current().IsAuthenticated() {
					fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s. Check your email to confirm it, then run hiprompt login.\n", identity.Email)
					return nil
				}
				return printSession(cmd, app)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&fullName, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				if err := app.Session.SignOut(ctx); err != nil {
					return err
				}
				return printSession(cmd, app)
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				return printSession(cmd, app)
			})
		},
	}
}

func printSession(cmd *cobra.Command, app *di.App) error {
	current := app.Session.Current()
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), handlers.NavResponse{
			State:    current.State,
			Identity: current.Identity,
			Actions:  handlers.NavActions(current),
		})
	}
	renderSession(cmd.OutOrStdout(), current)
	return nil
}
