package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/govtorders/goms/internal/providers"
	"github.com/govtorders/goms/internal/usage"
)

// Extractor runs the structured extraction stage for one document at a
// time. Failed amendment blocks are dropped and counted, never guessed at
// with a local parser.
type Extractor struct {
	oracle providers.StructuredOracle
	usage  *usage.Accumulator
	logger *slog.Logger
}

func NewExtractor(oracle providers.StructuredOracle, acc *usage.Accumulator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{oracle: oracle, usage: acc, logger: logger}
}

// ExtractDocument parses one converted order. name identifies the source
// in logs and in the output record. The only error it returns is context
// cancellation; oracle failures degrade field by field.
func (e *Extractor) ExtractDocument(ctx context.Context, name, markdown string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &Document{
		SourceMarkdown: name,
		References:     References(markdown),
		Amendments:     []Amendment{},
		RawText:        markdown,
	}

	meta, err := e.extractMetadata(ctx, markdown)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("metadata extraction failed, keeping empty fields",
			"document", name, "error", err)
	} else {
		doc.Metadata = meta
	}
	doc.Metadata.EffectiveDate = EffectiveDate(markdown)

	section := AmendmentSection(markdown)
	if section == "" {
		e.logger.Info("no amendment section", "document", name)
		return doc, nil
	}

	for i, block := range SplitBlocks(section) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		amendments, err := e.extractBlock(ctx, block)
		if err != nil {
			doc.DroppedBlocks++
			e.logger.Warn("dropping unparseable amendment block",
				"document", name, "block", i, "error", err)
			continue
		}
		doc.Amendments = append(doc.Amendments, amendments...)
	}

	e.logger.Info("document extracted", "document", name,
		"amendments", len(doc.Amendments), "dropped_blocks", doc.DroppedBlocks,
		"references", len(doc.References))
	return doc, nil
}

func (e *Extractor) extractMetadata(ctx context.Context, markdown string) (Metadata, error) {
	result, err := e.oracle.Extract(ctx, &providers.ExtractRequest{
		Prompt: metadataPrompt(markdown),
		Schema: json.RawMessage(metadataSchema),
		Source: "metadata",
	})
	if result != nil {
		e.usage.Track("metadata", result.PromptTokens, result.CompletionTokens)
	}
	if err != nil {
		return Metadata{}, err
	}

	// JSON nulls leave string fields at their zero value.
	var meta Metadata
	if err := json.Unmarshal(result.JSON, &meta); err != nil {
		return Metadata{}, fmt.Errorf("decoding metadata: %w", err)
	}
	return meta, nil
}

// extractBlock sends one amendment block to the oracle and normalizes the
// response. A single amendment wrapped in a one-element array is accepted;
// so is a genuine multi-amendment array.
func (e *Extractor) extractBlock(ctx context.Context, block string) ([]Amendment, error) {
	result, err := e.oracle.Extract(ctx, &providers.ExtractRequest{
		Prompt: amendmentPrompt(block),
		Schema: json.RawMessage(amendmentSchema),
		Source: "extract",
	})
	if result != nil {
		e.usage.Track("extract", result.PromptTokens, result.CompletionTokens)
	}
	if err != nil {
		return nil, err
	}

	raws, err := coerceObjects(result.JSON)
	if err != nil {
		return nil, err
	}

	amendments := make([]Amendment, 0, len(raws))
	for _, raw := range raws {
		var a Amendment
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decoding amendment: %w", err)
		}
		if a.TypeOfAction == "" {
			a.TypeOfAction = ActionSubstitute
		}
		if a.Confidence == "" {
			a.Confidence = ConfidenceHigh
		}
		if err := a.validate(); err != nil {
			return nil, err
		}
		a.Raw = strings.TrimSpace(block)
		amendments = append(amendments, a)
	}
	return amendments, nil
}

// coerceObjects accepts either a JSON object or an array of objects and
// returns the objects.
func coerceObjects(data json.RawMessage) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty oracle response")
	}
	if trimmed[0] != '[' {
		return []json.RawMessage{data}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("decoding amendment array: %w", err)
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("oracle returned an empty amendment array")
	}
	return elems, nil
}
