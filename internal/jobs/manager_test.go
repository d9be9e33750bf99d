package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/govtorders/goms/internal/pipeline"
)

type stubProcessor struct {
	release chan struct{}
	err     error
}

func (p *stubProcessor) Run(ctx context.Context, jobID, bundlePath string) (*pipeline.Result, error) {
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return nil, p.err
	}
	return &pipeline.Result{TotalPages: 3}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitForStatus polls until the job reaches want or the deadline passes.
func waitForStatus(t *testing.T, m *Manager, jobID string, want Status) Record {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec, err := m.Get(jobID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if rec.Status == want {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	rec, _ := m.Get(jobID)
	t.Fatalf("job %s stuck in %s, want %s", jobID, rec.Status, want)
	return Record{}
}

func TestSubmitLifecycle(t *testing.T) {
	proc := &stubProcessor{release: make(chan struct{})}
	m := NewManager(proc, testLogger())

	rec := m.Submit("", "bundle.pdf", "/tmp/bundle.pdf", true)
	if rec.Status != StatusPending {
		t.Errorf("initial status = %s, want pending", rec.Status)
	}

	waitForStatus(t, m, rec.ID, StatusProcessing)
	close(proc.release)

	done := waitForStatus(t, m, rec.ID, StatusCompleted)
	if done.Result == nil || done.Result.TotalPages != 3 {
		t.Errorf("completed record = %+v, want pipeline result attached", done)
	}
	if done.Error != "" {
		t.Errorf("completed record carries error %q", done.Error)
	}
}

func TestSubmitFailure(t *testing.T) {
	proc := &stubProcessor{err: fmt.Errorf("split stage: no document boundaries detected in bundle")}
	m := NewManager(proc, testLogger())

	rec := m.Submit("", "scan.pdf", "", false)
	failed := waitForStatus(t, m, rec.ID, StatusFailed)

	if failed.Error == "" {
		t.Error("failed record has no error message")
	}
	if failed.Result != nil {
		t.Errorf("failed record carries a result: %+v", failed.Result)
	}
}

func TestTerminalStatesAbsorb(t *testing.T) {
	m := NewManager(&stubProcessor{}, testLogger())
	rec := m.Submit("", "bundle.pdf", "", false)
	waitForStatus(t, m, rec.ID, StatusCompleted)

	// A straggling transition after completion must be a no-op.
	m.transition(rec.ID, StatusFailed, func(r *Record) { r.Error = "late failure" })

	got, err := m.Get(rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCompleted || got.Error != "" {
		t.Errorf("record = %+v, terminal state was overwritten", got)
	}
}

func TestSubmitWithCallerID(t *testing.T) {
	m := NewManager(&stubProcessor{}, testLogger())

	rec := m.Submit("upload-abc", "bundle.pdf", "", false)
	if rec.ID != "upload-abc" {
		t.Errorf("job ID = %s, want caller-supplied ID", rec.ID)
	}
	waitForStatus(t, m, "upload-abc", StatusCompleted)
}

func TestGetUnknownJob(t *testing.T) {
	m := NewManager(&stubProcessor{}, testLogger())
	if _, err := m.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	proc := &stubProcessor{release: make(chan struct{})}
	m := NewManager(proc, testLogger())

	first := m.Submit("", "a.pdf", "", false)
	time.Sleep(2 * time.Millisecond)
	second := m.Submit("", "b.pdf", "", false)
	defer close(proc.release)

	list := m.List()
	if len(list) != 2 {
		t.Fatalf("got %d jobs, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("list order = [%s %s], want newest first", list[0].ID, list[1].ID)
	}
}

func TestDeleteRemovesUpload(t *testing.T) {
	dir := t.TempDir()
	upload := filepath.Join(dir, "job_bundle.pdf")
	if err := os.WriteFile(upload, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(&stubProcessor{}, testLogger())
	rec := m.Submit("", "bundle.pdf", upload, true)
	waitForStatus(t, m, rec.ID, StatusCompleted)

	if err := m.Delete(rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(upload); !os.IsNotExist(err) {
		t.Error("uploaded bundle still on disk after delete")
	}
	if _, err := m.Get(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}

	if err := m.Delete(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() = %v, want ErrNotFound", err)
	}
}

func TestDeleteKeepsCallerOwnedBundle(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "on_server.pdf")
	if err := os.WriteFile(bundle, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(&stubProcessor{}, testLogger())
	rec := m.Submit("", "on_server.pdf", bundle, false)
	waitForStatus(t, m, rec.ID, StatusCompleted)

	if err := m.Delete(rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(bundle); err != nil {
		t.Errorf("caller-owned bundle removed: %v", err)
	}
}
