package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/webview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// serveCmd serves the dashboard as JSON over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as a read-only JSON API",
	Long: `Start an HTTP server over one shared dashboard store.

Endpoints:
  GET  /healthz       liveness check
  GET  /api/state     current snapshot
  GET  /api/derived   derived totals and trends
  GET  /api/events    server-sent events on every change
  POST /api/refresh   reload the dashboard (?user= overrides the configured user)

Examples:
  devpulse serve --addr :8080 --user 42`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		defer Shutdown()
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := newStore()
		if cfg.UserID != "" && !viper.GetBool("no-refresh") {
			if err := store.RefreshAll(ctx, cfg.UserID); err != nil {
				contract.LogWarn("Initial refresh failed", err)
			}
		}

		logger.Info("starting webview", zap.String("addr", cfg.ServeAddr), zap.String("user_id", cfg.UserID))
		return webview.Serve(ctx, cfg.ServeAddr, webview.Routes(webview.NewHandler(store, cfg.UserID, logger)), logger)
	},
}
