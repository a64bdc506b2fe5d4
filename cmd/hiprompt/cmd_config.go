package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report whether the gateway credentials are set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			diag := cfg.Diagnose()
			if jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), diag); err != nil {
					return err
				}
				if err := diag.Err(); err != nil {
					return &reportedError{err: err}
				}
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Driver: %s\n", cfg.Gateway.Driver)
			fmt.Fprintf(out, "Sources: %s\n", strings.Join(cfg.LoadedFrom, ", "))
			if err := requireConfigured(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			fmt.Fprintln(out, "Configuration OK.")
			return nil
		},
	})
	return cmd
}
