package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hiprompt/internal/di"
	"hiprompt/internal/domain"
	"hiprompt/internal/prompts"
)

func newFeedCmd() *cobra.Command {
	var q prompts.FeedQuery
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List public prompts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				feed, err := app.Prompts.Feed(ctx, q)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), feed)
				}
				renderFeed(cmd.OutOrStdout(), feed)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.CategoryID, "category", "", "category id")
	cmd.Flags().StringVarP(&q.Search, "search", "q", "", "search titles and descriptions")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <prompt-id>",
		Short: "Show a prompt and record a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				detail, err := app.Prompts.Detail(ctx, args[0])
				// The view is written in the background; let it land before exit.
				app.Prompts.Close()
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), detail)
				}
				renderDetail(cmd.OutOrStdout(), detail)
				return nil
			})
		},
	}
}

func newCreateCmd() *cobra.Command {
	var draft domain.PromptDraft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				created, err := app.Prompts.Create(ctx, draft)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), created)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", created.ID)
				fmt.Fprintln(cmd.OutOrStdout(), renderPromptLine(created))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&draft.Title, "title", "t", "", "title")
	cmd.Flags().StringVarP(&draft.Description, "description", "d", "", "short description")
	cmd.Flags().StringVarP(&draft.Content, "content", "c", "", "prompt text")
	cmd.Flags().StringVar(&draft.CategoryID, "category", "", "category id")
	cmd.Flags().BoolVar(&draft.IsPublic, "public", true, "share with everyone")
	cmd.Flags().StringSliceVar(&draft.Tags, "tag", nil, "tag (repeatable)")
	return cmd
}

func newLikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <prompt-id>",
		Short: "Like or unlike a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				result, err := app.Prompts.ToggleLike(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), result)
				}
				verb := "Unliked"
				if result.Liked {
					verb = "Liked"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s. %d likes.\n", verb, result.LikesCount)
				return nil
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <prompt-id>",
		Short: "Delete one of your prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				if err := app.Prompts.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newProfileCmd() *cobra.Command {
	var visibility string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your prompts and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				view, err := app.Prompts.Profile(ctx, prompts.ProfileQuery{Visibility: domain.ParseVisibility(visibility)})
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), view)
				}
				renderProfile(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&visibility, "visibility", "public", "tab to list: public or private")
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *di.App) error {
				categories, err := app.Prompts.Categories(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), categories)
				}
				for _, c := range categories {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", mutedStyle.Render(c.ID), c.Name)
				}
				return nil
			})
		},
	}
}
