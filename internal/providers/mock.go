package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

const MockOracleName = "mock"

// MockOracle is a StructuredOracle for testing.
type MockOracle struct {
	// Configurable behavior
	Latency    time.Duration
	ShouldFail bool
	FailAfter  int // Fail after N requests (0 = never)

	// Response is returned verbatim; it is parsed like a real oracle
	// response, so non-JSON values exercise the malformed-response path.
	Response string

	// Responses, when set, is consumed one entry per call in order.
	Responses []string

	// State
	requestCount atomic.Int64
}

// NewMockOracle creates a mock oracle that returns the given response.
func NewMockOracle(response string) *MockOracle {
	return &MockOracle{Response: response}
}

// Name returns the oracle identifier.
func (m *MockOracle) Name() string {
	return MockOracleName
}

// Calls returns how many Extract calls have been made.
func (m *MockOracle) Calls() int {
	return int(m.requestCount.Load())
}

// Extract returns the configured canned response.
func (m *MockOracle) Extract(ctx context.Context, req *ExtractRequest) (*ExtractResult, error) {
	count := m.requestCount.Add(1)

	if m.ShouldFail {
		return nil, fmt.Errorf("mock oracle configured to fail")
	}
	if m.FailAfter > 0 && int(count) > m.FailAfter {
		return nil, fmt.Errorf("mock oracle failed after %d requests", m.FailAfter)
	}

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	raw := m.Response
	if len(m.Responses) > 0 {
		idx := int(count) - 1
		if idx >= len(m.Responses) {
			idx = len(m.Responses) - 1
		}
		raw = m.Responses[idx]
	}

	result := &ExtractResult{
		Raw:              raw,
		PromptTokens:     10,
		CompletionTokens: 5,
	}

	parsed, err := ParseStructuredJSON(raw)
	if err != nil {
		return result, fmt.Errorf("oracle response is not JSON: %w", err)
	}
	if err := ValidateStructuredJSON(req.Schema, parsed); err != nil {
		return result, err
	}

	result.JSON = json.RawMessage(parsed)
	return result, nil
}
