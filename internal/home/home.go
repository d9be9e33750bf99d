// Package home manages the goms home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the goms home directory.
	DefaultDirName = ".goms"

	// UploadsDirName holds PDF bundles submitted via the gateway.
	UploadsDirName = "uploads"

	// OutputsDirName is the parent for all pipeline outputs.
	OutputsDirName = "outputs"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the goms home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.goms).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// UploadsPath returns the directory for uploaded PDF bundles.
func (d *Dir) UploadsPath() string {
	return filepath.Join(d.path, UploadsDirName)
}

// UploadPath returns the storage path for one uploaded bundle.
func (d *Dir) UploadPath(jobID, filename string) string {
	return filepath.Join(d.UploadsPath(), fmt.Sprintf("%s_%s", jobID, filename))
}

// SplitDir returns the directory for sliced per-document PDFs of a job.
func (d *Dir) SplitDir(jobID string) string {
	return filepath.Join(d.path, OutputsDirName, "split_goms", jobID)
}

// MarkdownDir returns the directory for converted markdown files of a job.
func (d *Dir) MarkdownDir(jobID string) string {
	return filepath.Join(d.path, OutputsDirName, "markdown_goms", jobID)
}

// ParsedDir returns the directory for extraction exports of a job.
func (d *Dir) ParsedDir(jobID string) string {
	return filepath.Join(d.path, OutputsDirName, "parsed_goms", jobID)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, p := range []string{
		d.UploadsPath(),
		filepath.Join(d.path, OutputsDirName),
	} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p, err)
		}
	}
	return nil
}

// EnsureJobDirs creates the per-job output directories.
func (d *Dir) EnsureJobDirs(jobID string) error {
	for _, p := range []string{d.SplitDir(jobID), d.MarkdownDir(jobID), d.ParsedDir(jobID)} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
