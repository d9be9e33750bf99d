// Package jobs tracks asynchronous bundle processing runs.
package jobs

import (
	"time"

	"github.com/govtorders/goms/internal/pipeline"
)

// Status is a job's lifecycle state. Terminal states are absorbing: once
// a job is completed or failed it never transitions again.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Record is the tracked state of one submitted bundle.
type Record struct {
	ID         string `json:"job_id"`
	Filename   string `json:"filename"`
	BundlePath string `json:"-"`
	// Uploaded marks bundles copied into the uploads directory; only
	// those are removed from disk when the job is deleted.
	Uploaded  bool             `json:"-"`
	Status    Status           `json:"status"`
	Error     string           `json:"error,omitempty"`
	Result    *pipeline.Result `json:"result,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
