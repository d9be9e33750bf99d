// Package svcctx provides service context for dependency injection via
// context. Separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/govtorders/goms/internal/home"
	"github.com/govtorders/goms/internal/jobs"
	"github.com/govtorders/goms/internal/pdftext"
	"github.com/govtorders/goms/internal/providers"
)

// Services holds the core services that flow through request context.
// Handlers extract what they need via the individual extractors.
type Services struct {
	JobManager *jobs.Manager
	Home       *home.Dir
	Oracle     providers.StructuredOracle
	PDFText    *pdftext.Extractor
	Logger     *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// JobManagerFrom extracts the job manager from context.
func JobManagerFrom(ctx context.Context) *jobs.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.JobManager
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// OracleFrom extracts the structured oracle from context. Nil when no API
// key is configured.
func OracleFrom(ctx context.Context) providers.StructuredOracle {
	if s := ServicesFrom(ctx); s != nil {
		return s.Oracle
	}
	return nil
}

// PDFTextFrom extracts the PDF text extractor from context.
func PDFTextFrom(ctx context.Context) *pdftext.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.PDFText
	}
	return nil
}

// LoggerFrom extracts the logger from context, falling back to the default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
