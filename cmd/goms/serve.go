package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/govtorders/goms/internal/config"
	"github.com/govtorders/goms/internal/home"
	"github.com/govtorders/goms/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the goms server",
	Long: `Start the goms HTTP server.

Bundles are submitted via the API and processed asynchronously; poll the
returned job ID for progress and results.

The server provides:
  - GET    /health             - Health check (OCR and oracle status)
  - POST   /api/process        - Upload a bundle PDF for processing
  - POST   /api/process/path   - Process a bundle already on the server
  - GET    /api/jobs           - List jobs
  - GET    /api/jobs/{id}      - Job status and results
  - DELETE /api/jobs/{id}      - Delete a job and its upload

Examples:
  goms serve                    # Start on default port 8080
  goms serve --port 3000        # Start on custom port
  goms serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cfgPath := cfgFile
		if cfgPath == "" {
			cfgPath = h.ConfigPath()
			if !h.ConfigExists() {
				if err := config.WriteDefault(cfgPath); err != nil {
					return err
				}
				logger.Info("wrote default config", "path", cfgPath)
			}
		}
		cm, err := config.NewManager(cfgPath)
		if err != nil {
			return err
		}
		cm.WatchConfig()

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			Home:          h,
			ConfigManager: cm,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
