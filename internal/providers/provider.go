// Package providers wraps the external oracles the pipeline depends on.
//
// Oracles are untrusted, rate-limited, occasionally-failing services. Every
// response is validated locally before use.
package providers

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotConfigured is returned when an oracle is used without credentials.
var ErrNotConfigured = errors.New("oracle not configured")

// StructuredOracle asks an external model to produce JSON for a prompt.
// The returned value must be validated by the caller before use; the
// contract places no upper bound on response shape.
type StructuredOracle interface {
	// Extract sends a prompt and an optional JSON schema hint, returning
	// the raw JSON value the oracle produced.
	Extract(ctx context.Context, req *ExtractRequest) (*ExtractResult, error)

	// Name returns the oracle identifier (e.g. "gemini").
	Name() string
}

// ExtractRequest is a single structured-extraction call.
type ExtractRequest struct {
	// Prompt is the full instruction text.
	Prompt string

	// Schema is an optional JSON schema the response must conform to.
	// When set, the response is validated locally against it.
	Schema json.RawMessage

	// Source attributes the call in usage tracking (e.g. "amendment_extract").
	Source string
}

// ExtractResult is the validated outcome of a structured-extraction call.
type ExtractResult struct {
	// JSON is the parsed, normalized response payload.
	JSON json.RawMessage

	// Raw is the unprocessed text the oracle returned.
	Raw string

	// Token accounting for the usage accumulator.
	PromptTokens     int
	CompletionTokens int
}
