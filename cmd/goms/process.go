package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/govtorders/goms/internal/api"
	"github.com/govtorders/goms/internal/config"
	"github.com/govtorders/goms/internal/home"
	"github.com/govtorders/goms/internal/pipeline"
	"github.com/govtorders/goms/internal/providers"
)

var processCmd = &cobra.Command{
	Use:   "process <bundle.pdf>",
	Short: "Process a bundle PDF locally, without a server",
	Long: `Run the full pipeline on a bundle PDF in the current process.

The bundle is OCR'd, split into individual government orders, converted
to markdown, and each order's amendments are extracted. Outputs land
under the goms home directory, keyed by a generated job ID.

Amendment extraction needs an oracle API key in the config; without one
the split and markdown stages still run but extraction fails.

Examples:
  goms process bundle.pdf
  goms process bundle.pdf --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Logs on stderr so stdout carries only the result
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		bundlePath, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(bundlePath); err != nil {
			return err
		}

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
			}
		}
		cm, err := config.NewManager(cfgPath)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		oracle, err := providers.NewGeminiOracle(providers.GeminiConfig{
			BaseURL:    cfg.Oracle.BaseURL,
			Model:      cfg.Oracle.Model,
			APIKey:     cfg.ResolvedAPIKey(),
			RateLimit:  cfg.Oracle.RateLimit,
			MaxRetries: cfg.Oracle.MaxRetries,
		})
		if err != nil {
			if !errors.Is(err, providers.ErrNotConfigured) {
				return err
			}
			logger.Warn("oracle not configured, extraction will fail")
			oracle = nil
		}

		jobID := uuid.NewString()
		logger.Info("processing bundle", "path", bundlePath, "job_id", jobID)

		runner := pipeline.New(*cfg, h, oracle, logger)
		result, err := runner.Run(ctx, jobID, bundlePath)
		if err != nil {
			return err
		}
		return api.Output(result)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
