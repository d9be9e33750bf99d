package jobs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/govtorders/goms/internal/pipeline"
)

// ErrNotFound is returned for lookups of unknown job IDs.
var ErrNotFound = errors.New("job not found")

// Processor runs one bundle end to end. Satisfied by pipeline.Runner.
type Processor interface {
	Run(ctx context.Context, jobID, bundlePath string) (*pipeline.Result, error)
}

// Manager owns the job table. All access goes through its mutex; callers
// only ever see copies of records.
type Manager struct {
	mu     sync.Mutex
	jobs   map[string]*Record
	proc   Processor
	logger *slog.Logger
}

func NewManager(proc Processor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		jobs:   make(map[string]*Record),
		proc:   proc,
		logger: logger,
	}
}

// Submit registers a bundle under the given ID and starts exactly one
// worker goroutine for it. Callers mint the ID up front because the
// uploaded file is stored under it before submission. The returned record
// is the pending snapshot; processing continues after the submitting
// request is gone, so the worker does not inherit the caller's context.
func (m *Manager) Submit(jobID, filename, bundlePath string, uploaded bool) Record {
	if jobID == "" {
		jobID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec := &Record{
		ID:         jobID,
		Filename:   filename,
		BundlePath: bundlePath,
		Uploaded:   uploaded,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	m.mu.Lock()
	m.jobs[rec.ID] = rec
	m.mu.Unlock()

	m.logger.Info("job submitted", "job_id", rec.ID, "filename", filename)
	go m.process(context.Background(), rec.ID, bundlePath)

	return *rec
}

func (m *Manager) process(ctx context.Context, jobID, bundlePath string) {
	m.transition(jobID, StatusProcessing, nil)

	result, err := m.proc.Run(ctx, jobID, bundlePath)
	if err != nil {
		m.logger.Error("job failed", "job_id", jobID, "error", err)
		m.transition(jobID, StatusFailed, func(r *Record) {
			r.Error = err.Error()
		})
		return
	}

	m.logger.Info("job completed", "job_id", jobID, "documents", len(result.Documents))
	m.transition(jobID, StatusCompleted, func(r *Record) {
		r.Result = result
	})
}

// transition moves a job to the given status unless it already reached a
// terminal state; late transitions are silently dropped.
func (m *Manager) transition(jobID string, to Status, mutate func(*Record)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.jobs[jobID]
	if !ok || rec.Status.Terminal() {
		return
	}
	rec.Status = to
	rec.UpdatedAt = time.Now().UTC()
	if mutate != nil {
		mutate(rec)
	}
}

// Get returns a copy of one job's record.
func (m *Manager) Get(jobID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.jobs[jobID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return *rec, nil
}

// List returns copies of all records, newest first.
func (m *Manager) List() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, 0, len(m.jobs))
	for _, rec := range m.jobs {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Delete removes a job and its uploaded bundle from disk. Outputs under
// the job's output directories are kept.
func (m *Manager) Delete(jobID string) error {
	m.mu.Lock()
	rec, ok := m.jobs[jobID]
	if ok {
		delete(m.jobs, jobID)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	if rec.Uploaded && rec.BundlePath != "" {
		if err := os.Remove(rec.BundlePath); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("could not remove uploaded bundle", "job_id", jobID, "error", err)
		}
	}
	m.logger.Info("job deleted", "job_id", jobID)
	return nil
}
