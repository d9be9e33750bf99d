// Package pipeline chains the processing stages for one GO bundle:
// split into per-order PDFs, convert each slice to markdown, extract
// structured amendments.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/govtorders/goms/internal/config"
	"github.com/govtorders/goms/internal/extract"
	"github.com/govtorders/goms/internal/home"
	"github.com/govtorders/goms/internal/markdown"
	"github.com/govtorders/goms/internal/pdftext"
	"github.com/govtorders/goms/internal/providers"
	"github.com/govtorders/goms/internal/split"
	"github.com/govtorders/goms/internal/usage"
)

// ErrAllSlicesFailed is returned when the conversion stage produces no
// markdown at all; without at least one converted slice there is nothing
// to extract.
var ErrAllSlicesFailed = errors.New("no slice converted to markdown")

// DocumentResult is the per-order outcome of a run.
type DocumentResult struct {
	Segment      split.Segment `json:"segment"`
	SlicePath    string        `json:"slice_path"`
	MarkdownPath string        `json:"markdown_path,omitempty"`
	JSONPath     string        `json:"json_path,omitempty"`
	SummaryPath  string        `json:"summary_path,omitempty"`
	Amendments   int           `json:"amendments"`
	Error        string        `json:"error,omitempty"`
}

// Result is the outcome of processing one bundle end to end.
type Result struct {
	TotalPages int              `json:"total_pages"`
	Segments   []split.Segment  `json:"segments"`
	Documents  []DocumentResult `json:"documents"`
	Usage      usage.Report     `json:"usage"`
	Elapsed    time.Duration    `json:"elapsed_ns"`
}

// TextSource is the page text access the pipeline needs. Production runs
// use pdftext.Extractor.
type TextSource interface {
	OCRPass(ctx context.Context, pdfPath, workDir string) (string, func())
	PageCount(pdfPath string) (int, error)
	PageTexts(pdfPath string) ([]string, error)
}

// Runner wires the stages together for repeated runs. Each Run gets its
// own usage accumulator.
type Runner struct {
	cfg    config.Config
	home   *home.Dir
	oracle providers.StructuredOracle
	text   TextSource
	logger *slog.Logger
}

// New builds a Runner. oracle may be nil when no API key is configured;
// splitting and conversion still work, extraction fails cleanly.
func New(cfg config.Config, dir *home.Dir, oracle providers.StructuredOracle, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		home:   dir,
		oracle: oracle,
		text: pdftext.New(pdftext.Config{
			OCRBinary: cfg.OCR.Binary,
			OCRJobs:   cfg.OCR.Jobs,
			Logger:    logger,
		}),
		logger: logger,
	}
}

// Run processes one bundle. Cancellation is honored between stages and
// between oracle calls; an in-flight stage is never torn down mid-write.
func (r *Runner) Run(ctx context.Context, jobID, bundlePath string) (*Result, error) {
	started := time.Now()
	acc := usage.NewAccumulator()
	logger := r.logger.With("job_id", jobID)

	if err := r.home.EnsureJobDirs(jobID); err != nil {
		return nil, fmt.Errorf("preparing job directories: %w", err)
	}

	// Stage 1: split.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	splitRes, err := r.runSplit(ctx, jobID, bundlePath, acc, logger)
	if err != nil {
		return nil, fmt.Errorf("split stage: %w", err)
	}
	logger.Info("split stage done", "segments", len(splitRes.Segments))

	// Stage 2: convert.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slicePaths := make([]string, len(splitRes.Slices))
	for i, sl := range splitRes.Slices {
		slicePaths[i] = sl.Path
	}
	converter := markdown.NewConverter(r.text, logger)
	convRes, err := converter.ConvertAll(ctx, slicePaths, r.home.MarkdownDir(jobID), r.cfg.Convert.MaxWorkers)
	if err != nil {
		return nil, fmt.Errorf("convert stage: %w", err)
	}
	if markdown.Succeeded(convRes) == 0 {
		return nil, fmt.Errorf("convert stage: %w", ErrAllSlicesFailed)
	}
	logger.Info("convert stage done", "converted", markdown.Succeeded(convRes), "total", len(convRes))

	// Stage 3: extract.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.oracle == nil {
		return nil, fmt.Errorf("extract stage: %w", providers.ErrNotConfigured)
	}
	extractor := extract.NewExtractor(r.oracle, acc, logger)

	documents := make([]DocumentResult, len(splitRes.Slices))
	for i, sl := range splitRes.Slices {
		dr := DocumentResult{Segment: sl.Segment, SlicePath: sl.Path}
		conv := convRes[i]
		if conv.Err != nil {
			dr.Error = conv.Err.Error()
			documents[i] = dr
			continue
		}
		dr.MarkdownPath = conv.MarkdownPath

		doc, err := r.extractOne(ctx, extractor, jobID, conv.MarkdownPath, &dr)
		if err != nil {
			return nil, fmt.Errorf("extract stage: %w", err)
		}
		if doc != nil {
			dr.Amendments = len(doc.Amendments)
		}
		documents[i] = dr
	}

	res := &Result{
		TotalPages: splitRes.TotalPages,
		Segments:   splitRes.Segments,
		Documents:  documents,
		Usage:      acc.Report(),
		Elapsed:    time.Since(started),
	}
	logger.Info("pipeline done", "documents", len(documents),
		"oracle_calls", res.Usage.Totals.Calls, "elapsed", res.Elapsed)
	return res, nil
}

func (r *Runner) runSplit(ctx context.Context, jobID, bundlePath string, acc *usage.Accumulator, logger *slog.Logger) (*split.Result, error) {
	opts := split.Options{Source: r.text, Logger: logger}
	if r.cfg.Split.Strategy == config.StrategyOracle && r.oracle != nil {
		opts.Oracle = split.NewOracleClassifier(
			r.oracle,
			r.cfg.Split.BatchSize,
			time.Duration(r.cfg.Split.BatchDelaySeconds)*time.Second,
			acc,
			logger,
		)
		opts.UseOracle = true
	}
	return split.NewSplitter(opts).Run(ctx, bundlePath, r.home.SplitDir(jobID))
}

// extractOne runs extraction and export for a single converted order.
// Only context cancellation propagates; anything else is recorded on the
// document result.
func (r *Runner) extractOne(ctx context.Context, extractor *extract.Extractor, jobID, mdPath string, dr *DocumentResult) (*extract.Document, error) {
	data, err := os.ReadFile(mdPath)
	if err != nil {
		dr.Error = err.Error()
		return nil, nil
	}

	base := strings.TrimSuffix(filepath.Base(mdPath), filepath.Ext(mdPath))
	doc, err := extractor.ExtractDocument(ctx, base, string(data))
	if err != nil {
		return nil, err
	}

	jsonPath, summaryPath, err := extract.Export(doc, r.home.ParsedDir(jobID), base)
	if err != nil {
		dr.Error = err.Error()
		return doc, nil
	}
	dr.JSONPath = jsonPath
	dr.SummaryPath = summaryPath
	return doc, nil
}
