package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hiprompt/internal/config"
	"hiprompt/internal/di"
)

func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}

// requireConfigured prints setup instructions when the gateway credentials
// are missing and returns the configuration error.
func requireConfigured(cfg *config.Config, stderr io.Writer) error {
	diag := cfg.Diagnose()
	if err := diag.Err(); err != nil {
		fmt.Fprint(stderr, diag.Instructions())
		return &reportedError{err: err}
	}
	return nil
}

// withApp builds the client, resolves the persisted session and runs fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *di.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireConfigured(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := app.Session.Initialize(ctx); err != nil {
		// The session resolved anonymous; commands that need a user will say so.
		app.Logger.Warn("Could not restore the saved session", zap.Error(err))
	}
	return fn(ctx, app)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
