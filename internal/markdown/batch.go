package markdown

import (
	"context"
	"sync"
)

// Result is the outcome of converting one slice. Err is set for per-slice
// failures; a failed slice never aborts the batch.
type Result struct {
	SlicePath    string `json:"slice_path"`
	MarkdownPath string `json:"markdown_path,omitempty"`
	Err          error  `json:"-"`
}

// Succeeded counts results that produced a markdown file.
func Succeeded(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// ConvertAll converts every slice with a fixed pool of workers. Results
// are positionally aligned with slicePaths regardless of completion order.
// Returns an error only when the context is cancelled; per-slice failures
// are reported in their Result.
func (c *Converter) ConvertAll(ctx context.Context, slicePaths []string, outDir string, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(slicePaths) {
		workers = len(slicePaths)
	}

	results := make([]Result, len(slicePaths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				path := slicePaths[i]
				mdPath, err := c.ConvertFile(path, outDir)
				results[i] = Result{SlicePath: path, MarkdownPath: mdPath, Err: err}
				if err != nil {
					c.logger.Warn("slice conversion failed", "slice", path, "error", err)
				}
			}
		}()
	}

feed:
	for i := range slicePaths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
