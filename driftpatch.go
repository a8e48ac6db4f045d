package driftpatch

import (
	"context"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/fathomlabs/driftpatch/patch"
	"github.com/fathomlabs/driftpatch/tracing"
)

// Service is the patch-engine facade. It is synchronous and single-threaded:
// files are patched one by one, hunk by hunk, with no internal parallelism,
// so a caller needing bounded latency must impose a timeout externally and
// accept that a timed-out call may already have written some files.
type Service struct {
	fs      afs.Service
	logger  *zap.Logger
	applier *patch.Applier
}

// New creates a Service with the supplied options.
func New(options ...Option) *Service {
	s := &Service{}
	for _, o := range options {
		o(s)
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.applier = patch.NewApplier(s.fs, s.logger)
	return s
}

// Applier exposes the per-file applier for callers that manage their own
// parsing or staging.
func (s *Service) Applier() *patch.Applier { return s.applier }

// ApplyDiffText parses a unified-diff text, or a "*** Begin Patch"
// envelope, and applies every file edit it contains. Failures never escape
// as errors: unusable sections parse to nothing and per-file problems land
// in the corresponding report.
func (s *Service) ApplyDiffText(ctx context.Context, text string, opts patch.Options) []patch.FileReport {
	ctx, span := tracing.StartSpan(ctx, "driftpatch.applyDiffText")
	defer tracing.EndSpan(span, nil)

	var reports []patch.FileReport
	if patch.IsEnvelope(text) {
		patches, writes := patch.ParseEnvelope(text)
		reports = s.run(ctx, patches, writes, opts)
	} else {
		reports = s.run(ctx, patch.ParseMultiFile(text), nil, opts)
	}
	span.WithAttributes(map[string]string{"files": strconv.Itoa(len(reports))})
	return reports
}

// ApplyFragments applies {path, unified_diff} records, with or without
// embedded file headers.
func (s *Service) ApplyFragments(ctx context.Context, records []patch.Record, opts patch.Options) []patch.FileReport {
	ctx, span := tracing.StartSpan(ctx, "driftpatch.applyFragments")
	defer tracing.EndSpan(span, nil)

	reports := s.run(ctx, patch.ParseFragments(records), nil, opts)
	span.WithAttributes(map[string]string{"files": strconv.Itoa(len(reports))})
	return reports
}

func (s *Service) run(ctx context.Context, patches []patch.FilePatch, writes []patch.FileWrite, opts patch.Options) []patch.FileReport {
	var reports []patch.FileReport
	for _, w := range writes {
		if !matchesFilter(w.Path, opts.PathFilter) {
			continue
		}
		reports = append(reports, s.applier.ApplyWrite(ctx, w, opts))
	}
	for _, fp := range patches {
		if !matchesFilter(fp.Path, opts.PathFilter) {
			continue
		}
		reports = append(reports, s.applier.ApplyFile(ctx, fp, opts))
	}
	return reports
}

func matchesFilter(path, filter string) bool {
	return filter == "" || strings.Contains(path, filter)
}
