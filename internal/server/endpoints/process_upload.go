package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/govtorders/goms/internal/api"
	"github.com/govtorders/goms/internal/jobs"
	"github.com/govtorders/goms/internal/svcctx"
)

// SubmitResponse is returned when a bundle is accepted for processing.
type SubmitResponse struct {
	JobID    string      `json:"job_id"`
	Filename string      `json:"filename"`
	Status   jobs.Status `json:"status"`
}

// ProcessUploadEndpoint handles POST /api/process with a multipart PDF
// upload. Processing is asynchronous; poll the returned job ID.
type ProcessUploadEndpoint struct{}

var _ api.Endpoint = (*ProcessUploadEndpoint)(nil)

func (e *ProcessUploadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/process", e.handler
}

func (e *ProcessUploadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 200 << 20 // 200MB of scanned pages
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", header.Filename))
		return
	}

	homeDir := svcctx.HomeFrom(r.Context())
	jm := svcctx.JobManagerFrom(r.Context())
	if homeDir == nil || jm == nil {
		writeError(w, http.StatusServiceUnavailable, "server not fully initialized")
		return
	}

	jobID := uuid.NewString()
	uploadPath := homeDir.UploadPath(jobID, filepath.Base(header.Filename))
	if err := os.MkdirAll(filepath.Dir(uploadPath), 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to prepare upload dir: %v", err))
		return
	}
	dst, err := os.Create(uploadPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store upload: %v", err))
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(uploadPath)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store upload: %v", err))
		return
	}
	if err := dst.Close(); err != nil {
		os.Remove(uploadPath)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store upload: %v", err))
		return
	}

	rec := jm.Submit(jobID, header.Filename, uploadPath, true)
	writeJSON(w, http.StatusAccepted, SubmitResponse{
		JobID:    rec.ID,
		Filename: rec.Filename,
		Status:   rec.Status,
	})
}

func (e *ProcessUploadEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "process <bundle.pdf>",
		Short: "Upload a GO bundle for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SubmitResponse
			if err := client.PostFile(cmd.Context(), "/api/process", "file", args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
