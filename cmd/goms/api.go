package main

import (
	"github.com/spf13/cobra"

	"github.com/govtorders/goms/internal/api"
	"github.com/govtorders/goms/internal/server/endpoints"
)

var serverURL string

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Job management commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Top-level api commands come straight from the endpoint registry;
	// job endpoints get their own subcommand group.
	reg := api.NewRegistry()
	reg.Register(&endpoints.HealthEndpoint{})
	reg.Register(&endpoints.ProcessUploadEndpoint{})
	reg.Register(&endpoints.ProcessPathEndpoint{})
	apiCmd := reg.BuildCommands(getServerURL)

	// Persistent so all subcommands inherit it
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	for _, e := range endpoints.JobCommands() {
		jobsCmd.AddCommand(e.Command(getServerURL))
	}

	apiCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(apiCmd)
}
