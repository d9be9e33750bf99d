// Package usage tracks oracle token consumption per pipeline run.
//
// The accumulator is created per run and passed by reference through each
// stage, so usage never lives in process-global state. The final report is
// returned with the job result.
package usage

import "sync"

// Request records token usage for a single oracle call.
type Request struct {
	Source           string `json:"source"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
}

// Totals aggregates token usage across all calls of a run.
type Totals struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	Calls            int `json:"calls"`
}

// Report is the immutable snapshot returned at job completion.
type Report struct {
	Requests []Request `json:"requests"`
	Totals   Totals    `json:"totals"`
}

// Accumulator collects oracle usage for one run. Safe for concurrent use.
type Accumulator struct {
	mu       sync.Mutex
	requests []Request
	totals   Totals
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Track records one oracle call attributed to a source component.
func (a *Accumulator) Track(source string, promptTokens, completionTokens int) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	total := promptTokens + completionTokens
	a.requests = append(a.requests, Request{
		Source:           source,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      total,
	})
	a.totals.PromptTokens += promptTokens
	a.totals.CompletionTokens += completionTokens
	a.totals.TotalTokens += total
	a.totals.Calls++
}

// Report returns a snapshot of everything tracked so far.
func (a *Accumulator) Report() Report {
	if a == nil {
		return Report{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	reqs := make([]Request, len(a.requests))
	copy(reqs, a.requests)
	return Report{
		Requests: reqs,
		Totals:   a.totals,
	}
}
