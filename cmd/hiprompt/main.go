// Command hiprompt is the terminal and local HTTP shell for Hi Prompt.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"hiprompt/internal/interfaces/http/rest/response"
	apperrors "hiprompt/pkg/errors"
)

// Exit codes.
const (
	exitOK            = 0
	exitFailure       = 1
	exitConfiguration = 2
)

var (
	configFile string
	jsonOutput bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hiprompt",
		Short: "Share, discover and like AI prompts",
		Long: `hiprompt talks to the Hi Prompt Supabase project.

Run "hiprompt serve" for the local HTTP shell, or use the subcommands below
from the terminal. Sign-in state persists between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		newServeCmd(),
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newFeedCmd(),
		newShowCmd(),
		newCreateCmd(),
		newLikeCmd(),
		newDeleteCmd(),
		newProfileCmd(),
		newCategoriesCmd(),
		newConfigCmd(),
	)
	return root
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitOK
	}
	printError(stderr, err)
	return exitCode(err)
}

func exitCode(err error) int {
	if apperrors.IsConfiguration(err) {
		return exitConfiguration
	}
	return exitFailure
}

// printError writes the toast equivalent of err.
func printError(w io.Writer, err error) {
	var reported *reportedError
	if errors.As(err, &reported) {
		return
	}

	appErr := apperrors.GetAppError(err)
	if jsonOutput && appErr != nil {
		_ = json.NewEncoder(w).Encode(response.ErrorEnvelope{Error: response.ErrorBody{
			Kind:      appErr.Kind,
			Reason:    appErr.Reason,
			Message:   appErr.Message,
			Retryable: appErr.Retryable,
		}})
		return
	}
	if appErr == nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %s\n", appErr.Message)
	if appErr.Retryable {
		fmt.Fprintln(w, "You can try again.")
	}
}

// reportedError marks an error whose details were already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
