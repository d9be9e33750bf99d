package endpoints

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/govtorders/goms/internal/api"
	"github.com/govtorders/goms/internal/svcctx"
)

// ProcessPathRequest submits a bundle already on the server's filesystem.
type ProcessPathRequest struct {
	Path string `json:"path"`
}

// ProcessPathEndpoint handles POST /api/process/path. The bundle is read
// in place; nothing is copied into the uploads directory, so deleting the
// job later leaves the file alone.
type ProcessPathEndpoint struct{}

var _ api.Endpoint = (*ProcessPathEndpoint)(nil)

func (e *ProcessPathEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/process/path", e.handler
}

func (e *ProcessPathEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ProcessPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if !strings.HasSuffix(strings.ToLower(req.Path), ".pdf") {
		writeError(w, http.StatusBadRequest, "path must point to a PDF")
		return
	}
	if _, err := os.Stat(req.Path); err != nil {
		writeError(w, http.StatusBadRequest, "bundle not found on server")
		return
	}

	jm := svcctx.JobManagerFrom(r.Context())
	if jm == nil {
		writeError(w, http.StatusServiceUnavailable, "server not fully initialized")
		return
	}

	rec := jm.Submit("", filepath.Base(req.Path), req.Path, false)
	writeJSON(w, http.StatusAccepted, SubmitResponse{
		JobID:    rec.ID,
		Filename: rec.Filename,
		Status:   rec.Status,
	})
}

func (e *ProcessPathEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "process-path <path-on-server>",
		Short: "Process a bundle already on the server filesystem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SubmitResponse
			if err := client.Post(cmd.Context(), "/api/process/path", ProcessPathRequest{Path: args[0]}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
