package split

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/govtorders/goms/internal/providers"
	"github.com/govtorders/goms/internal/usage"
)

// oracleBatchSchema constrains the oracle to one decision object per page
// in the batch, in page order.
const oracleBatchSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "page": {"type": "integer"},
      "is_start": {"type": "boolean"},
      "is_end": {"type": "boolean"},
      "goms_no": {"type": ["string", "null"]}
    },
    "required": ["page", "is_start"]
  }
}`

// pageExcerptLimit caps how much page text is sent per page. Boundary
// signals live in the header, so a short excerpt is enough.
const pageExcerptLimit = 600

// OracleClassifier batches pages through a structured oracle. Each batch is
// a single request; a failed batch degrades to all non-boundary pages
// rather than failing the run.
type OracleClassifier struct {
	oracle    providers.StructuredOracle
	batchSize int
	delay     time.Duration
	usage     *usage.Accumulator
	logger    *slog.Logger
}

// NewOracleClassifier builds a batch classifier. batchSize and delay fall
// back to safe defaults when non-positive.
func NewOracleClassifier(oracle providers.StructuredOracle, batchSize int, delay time.Duration, acc *usage.Accumulator, logger *slog.Logger) *OracleClassifier {
	if batchSize <= 0 {
		batchSize = 10
	}
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OracleClassifier{
		oracle:    oracle,
		batchSize: batchSize,
		delay:     delay,
		usage:     acc,
		logger:    logger,
	}
}

// Classify classifies all pages in fixed-size batches. Between batches it
// blocks for the configured delay; the delay is a plain wait, not a
// cancellation point. Context is checked once per batch boundary.
func (c *OracleClassifier) Classify(ctx context.Context, texts []string) ([]PageClassification, error) {
	out := make([]PageClassification, len(texts))
	for i := range out {
		out[i] = PageClassification{Page: i}
	}

	for offset := 0; offset < len(texts); offset += c.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if offset > 0 && c.delay > 0 {
			time.Sleep(c.delay)
		}

		end := offset + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[offset:end]

		decisions, err := c.classifyBatch(ctx, offset, batch)
		if err != nil {
			c.logger.Warn("boundary batch failed, treating pages as non-boundary",
				"first_page", offset, "pages", len(batch), "error", err)
			continue
		}
		copy(out[offset:end], decisions)
	}
	return out, nil
}

type oracleDecision struct {
	Page    int     `json:"page"`
	IsStart bool    `json:"is_start"`
	IsEnd   bool    `json:"is_end"`
	GomsNo  *string `json:"goms_no"`
}

func (c *OracleClassifier) classifyBatch(ctx context.Context, offset int, batch []string) ([]PageClassification, error) {
	prompt := buildBatchPrompt(offset, batch)

	result, err := c.oracle.Extract(ctx, &providers.ExtractRequest{
		Prompt: prompt,
		Schema: json.RawMessage(oracleBatchSchema),
		Source: "split",
	})
	if result != nil {
		c.usage.Track("split", result.PromptTokens, result.CompletionTokens)
	}
	if err != nil {
		return nil, err
	}

	var decisions []oracleDecision
	if err := json.Unmarshal(result.JSON, &decisions); err != nil {
		return nil, fmt.Errorf("decoding batch decisions: %w", err)
	}
	if len(decisions) != len(batch) {
		return nil, fmt.Errorf("oracle returned %d decisions for %d pages", len(decisions), len(batch))
	}

	// Decisions are aligned positionally; the echoed page field is not
	// trusted, models sometimes return batch-relative indices.
	out := make([]PageClassification, 0, len(decisions))
	for i, d := range decisions {
		pc := PageClassification{
			Page:    offset + i,
			IsStart: d.IsStart,
			IsEnd:   d.IsEnd,
		}
		if d.GomsNo != nil {
			pc.DocumentID = strings.TrimSpace(*d.GomsNo)
		}
		out = append(out, pc)
	}
	return out, nil
}

func buildBatchPrompt(offset int, batch []string) string {
	var b strings.Builder
	b.WriteString("You are analyzing consecutive pages of a scanned bundle of Government Orders (G.O.Ms).\n")
	b.WriteString("For each page decide whether it is the FIRST page of a new order (is_start), ")
	b.WriteString("whether it is clearly the LAST page of an order (is_end), ")
	b.WriteString("and the order number if visible (goms_no, digits only, null if absent).\n")
	b.WriteString("A first page typically carries a GOVERNMENT OF heading, an ABSTRACT, and a G.O.Ms.No line.\n")
	b.WriteString("Respond with a JSON array containing exactly one object per page, in page order.\n\n")
	for i, text := range batch {
		excerpt := strings.TrimSpace(text)
		if len(excerpt) > pageExcerptLimit {
			excerpt = excerpt[:pageExcerptLimit]
		}
		if excerpt == "" {
			excerpt = "(no extractable text)"
		}
		fmt.Fprintf(&b, "--- PAGE %d ---\n%s\n\n", offset+i, excerpt)
	}
	return b.String()
}
