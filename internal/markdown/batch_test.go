package markdown

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// delaySource finishes earlier slices slower, so completion order inverts
// submission order unless results are realigned.
type delaySource struct {
	delays   map[string]time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (s *delaySource) PageTexts(path string) ([]string, error) {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		max := s.maxSeen.Load()
		if cur <= max || s.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}

	base := filepath.Base(path)
	if d, ok := s.delays[base]; ok {
		time.Sleep(d)
	}
	if base == "bad.pdf" {
		return nil, nil
	}
	return []string{"CONTENT OF " + base}, nil
}

func TestConvertAllPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	source := &delaySource{delays: map[string]time.Duration{
		"a.pdf": 40 * time.Millisecond,
		"b.pdf": 20 * time.Millisecond,
		"c.pdf": 0,
	}}
	paths := []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.pdf"),
	}

	results, err := NewConverter(source, nil).ConvertAll(context.Background(), paths, dir, 3)
	if err != nil {
		t.Fatalf("ConvertAll() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.SlicePath != paths[i] {
			t.Errorf("result %d is for %s, want %s", i, r.SlicePath, paths[i])
		}
		if r.Err != nil {
			t.Errorf("result %d failed: %v", i, r.Err)
		}
		want := fmt.Sprintf("%s.md", filepath.Base(paths[i])[:1])
		if filepath.Base(r.MarkdownPath) != want {
			t.Errorf("result %d wrote %s, want %s", i, filepath.Base(r.MarkdownPath), want)
		}
	}
}

func TestConvertAllBoundsConcurrency(t *testing.T) {
	dir := t.TempDir()
	source := &delaySource{delays: map[string]time.Duration{}}
	var paths []string
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("s%d.pdf", i)
		source.delays[name] = 10 * time.Millisecond
		paths = append(paths, filepath.Join(dir, name))
	}

	if _, err := NewConverter(source, nil).ConvertAll(context.Background(), paths, dir, 2); err != nil {
		t.Fatalf("ConvertAll() error = %v", err)
	}
	if max := source.maxSeen.Load(); max > 2 {
		t.Errorf("observed %d concurrent conversions, want at most 2", max)
	}
}

func TestConvertAllPartialFailure(t *testing.T) {
	dir := t.TempDir()
	source := &delaySource{}
	paths := []string{
		filepath.Join(dir, "good.pdf"),
		filepath.Join(dir, "bad.pdf"),
	}

	results, err := NewConverter(source, nil).ConvertAll(context.Background(), paths, dir, 2)
	if err != nil {
		t.Fatalf("ConvertAll() error = %v", err)
	}
	if results[0].Err != nil {
		t.Errorf("good slice failed: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, ErrNoText) {
		t.Errorf("bad slice error = %v, want ErrNoText", results[1].Err)
	}
	if got := Succeeded(results); got != 1 {
		t.Errorf("Succeeded() = %d, want 1", got)
	}
}

func TestConvertAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	source := &delaySource{}
	_, err := NewConverter(source, nil).ConvertAll(ctx, []string{filepath.Join(dir, "x.pdf")}, dir, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
