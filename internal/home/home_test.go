package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-goms")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-goms" {
			t.Errorf("expected path /tmp/test-goms, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-goms")

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-goms/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})

	t.Run("UploadPath", func(t *testing.T) {
		expected := "/tmp/test-goms/uploads/job1_bundle.pdf"
		if got := dir.UploadPath("job1", "bundle.pdf"); got != expected {
			t.Errorf("expected %s, got %s", expected, got)
		}
	})

	t.Run("job output dirs", func(t *testing.T) {
		if got := dir.SplitDir("j"); got != "/tmp/test-goms/outputs/split_goms/j" {
			t.Errorf("unexpected SplitDir: %s", got)
		}
		if got := dir.MarkdownDir("j"); got != "/tmp/test-goms/outputs/markdown_goms/j" {
			t.Errorf("unexpected MarkdownDir: %s", got)
		}
		if got := dir.ParsedDir("j"); got != "/tmp/test-goms/outputs/parsed_goms/j" {
			t.Errorf("unexpected ParsedDir: %s", got)
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	gomsDir := filepath.Join(tmpDir, "goms-test")

	dir, err := New(gomsDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Exists() {
		t.Error("directory should not exist yet")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}
	if _, err := os.Stat(dir.UploadsPath()); err != nil {
		t.Errorf("uploads dir missing: %v", err)
	}
}

func TestDir_EnsureJobDirs(t *testing.T) {
	dir, _ := New(t.TempDir())

	if err := dir.EnsureJobDirs("job-42"); err != nil {
		t.Fatalf("EnsureJobDirs failed: %v", err)
	}

	for _, p := range []string{dir.SplitDir("job-42"), dir.MarkdownDir("job-42"), dir.ParsedDir("job-42")} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected dir %s to exist: %v", p, err)
		}
	}
}
