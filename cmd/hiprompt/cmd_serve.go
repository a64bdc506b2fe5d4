package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hiprompt/internal/config"
	"hiprompt/internal/di"
	"hiprompt/internal/interfaces/http/rest"
	"hiprompt/internal/observability"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP shell",
		Long: `Serves the Hi Prompt routes over HTTP.

Without gateway credentials every route answers 503 with setup instructions
until the process is restarted with a valid configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HIPROMPT_HTTP_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	diag := cfg.Diagnose()
	if !diag.OK() {
		logger, err := observability.NewLogger(cfg.IsProduction(), cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()
		logger.Error("Gateway credentials are missing, serving setup instructions only",
			zap.Any("settings", diag.Settings))
		return listen(ctx, cfg, rest.NewDiagnosticHandler(diag, logger), logger)
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// /ready answers 503 and the nav shows loading until this resolves.
	stop := initializeInBackground(ctx, app.Session, app.Logger)
	defer stop()
	return listen(ctx, cfg, app.Router.Setup(), app.Logger)
}

type initializer interface {
	Initialize(ctx context.Context) error
}

// initializeInBackground resolves the saved session without holding up the
// listener. stop cancels a pending resolution and waits for it to return.
func initializeInBackground(ctx context.Context, session initializer, logger *zap.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := session.Initialize(ctx); err != nil {
			logger.Warn("Could not restore the saved session", zap.Error(err))
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func listen(ctx context.Context, cfg *config.Config, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("Server failed", zap.Error(err))
			return err
		}
		return nil
	case <-sigCtx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("Server exited")
	return nil
}
