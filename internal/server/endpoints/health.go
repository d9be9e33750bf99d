// Package endpoints contains all HTTP endpoints for the goms server.
// Each endpoint implements api.Endpoint, pairing the HTTP route with a
// CLI command that calls it.
package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/govtorders/goms/internal/api"
	"github.com/govtorders/goms/internal/providers"
	"github.com/govtorders/goms/internal/svcctx"
)

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	OCR    string `json:"ocr"`
	Oracle string `json:"oracle"`

	// RateLimit is the oracle's limiter state, when one is configured.
	RateLimit *providers.RateLimiterStatus `json:"rate_limit,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", OCR: "unavailable", Oracle: "not_configured"}

	if text := svcctx.PDFTextFrom(r.Context()); text != nil && text.OCRAvailable() {
		resp.OCR = "available"
	}
	if oracle := svcctx.OracleFrom(r.Context()); oracle != nil {
		resp.Oracle = oracle.Name()
		if limited, ok := oracle.(interface {
			RateLimiterStatus() providers.RateLimiterStatus
		}); ok {
			status := limited.RateLimiterStatus()
			resp.RateLimit = &status
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			fmt.Printf("OCR:    %s\n", resp.OCR)
			fmt.Printf("Oracle: %s\n", resp.Oracle)
			if resp.RateLimit != nil {
				fmt.Printf("Rate:   %d/%d tokens available\n",
					resp.RateLimit.TokensAvailable, resp.RateLimit.TokensLimit)
			}
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
