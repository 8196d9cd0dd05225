package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"minutes-backend/internal/bootstrap"
	"minutes-backend/internal/shared/config"
	"minutes-backend/internal/shared/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload page and HTTP API",
	Long: `Serve starts the HTTP service. It is configured through the same environment
variables as the api binary (PORT, DATABASE_URL, ARCHIVE_STORE, ...).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		app, err := bootstrap.BuildContext(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if app.DB != nil {
			defer app.DB.Close()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.ListenAndServe(ctx, server.Addr(cfg.Port), app.Router)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (default: $PORT or 8080)")

	rootCmd.AddCommand(serveCmd)
}
