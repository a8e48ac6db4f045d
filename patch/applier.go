package patch

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"go.uber.org/zap"

	"github.com/fathomlabs/driftpatch/internal/clock"
)

// Applier runs file patches against an abstract file system. It is
// deliberately synchronous: files are processed one at a time, hunk by hunk,
// against a single evolving buffer.
type Applier struct {
	fs  afs.Service
	log *zap.Logger
}

// NewApplier returns an applier over fs. A nil fs selects the default afs
// service; a nil logger discards log output.
func NewApplier(fs afs.Service, log *zap.Logger) *Applier {
	if fs == nil {
		fs = afs.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Applier{fs: fs, log: log}
}

// ApplyFile runs every hunk of fp in order against the target file and
// reports the outcome. Per-hunk and per-file failures land in the report
// rather than an error; the only durable side effects are the target write
// and its backup, both skipped in dry-run mode. A write failure yields
// Applied=false and ChangedLines=0 so that the caller never mistakes an
// in-memory match for a change on disk.
func (a *Applier) ApplyFile(ctx context.Context, fp FilePatch, opts Options) FileReport {
	opts = opts.withDefaults()
	report := FileReport{Path: fp.Path}

	target := url.Join(opts.RepoRoot, fp.Path)
	text, err := a.readTarget(ctx, target)
	if err != nil {
		report.Notes = fmt.Sprintf("read error: %v", err)
		return report
	}
	if opts.NormalizeNewlines {
		text = normalizeNewlines(text)
	}

	buffer := splitLines(text)
	original := make([]string, len(buffer))
	copy(original, buffer)

	for i, h := range fp.Hunks {
		var out outcome
		buffer, out = applyHunk(buffer, h, opts)
		report.HunkReports = append(report.HunkReports, HunkReport{
			Index:          i,
			Applied:        out.applied,
			AlreadyApplied: out.already,
			ExactMatch:     out.exact,
			Ratio:          out.ratio,
			Notes:          out.notes,
		})
	}

	return a.finish(ctx, report, target, original, buffer, opts)
}

// ApplyWrite replaces the target's entire content, reporting it through the
// same shape as a hunk patch so that callers summarise both uniformly.
func (a *Applier) ApplyWrite(ctx context.Context, w FileWrite, opts Options) FileReport {
	opts = opts.withDefaults()
	report := FileReport{Path: w.Path}

	target := url.Join(opts.RepoRoot, w.Path)
	text, err := a.readTarget(ctx, target)
	if err != nil {
		report.Notes = fmt.Sprintf("read error: %v", err)
		return report
	}
	content := w.Content
	if opts.NormalizeNewlines {
		text = normalizeNewlines(text)
		content = normalizeNewlines(content)
	}

	return a.finish(ctx, report, target, splitLines(text), splitLines(content), opts)
}

// finish computes the change report for original vs final and, when not a
// dry run, persists the result.
func (a *Applier) finish(ctx context.Context, report FileReport, target string, original, final []string, opts Options) FileReport {
	changed := !equalLines(original, final)
	report.Applied = changed
	report.ChangedLines = countChangedLines(original, final)
	if opts.GeneratePreview {
		report.Preview = renderPreview(original, final, report.Path)
	}

	if changed && !opts.DryRun {
		a.backup(ctx, report.Path, strings.Join(original, ""), opts)
		if err := a.fs.Upload(ctx, target, file.DefaultFileOsMode, strings.NewReader(strings.Join(final, ""))); err != nil {
			report.Applied = false
			report.ChangedLines = 0
			report.Notes = fmt.Sprintf("write error: %v", err)
		}
	}
	return report
}

// readTarget loads the target's current text, treating a missing file as
// empty content (pure-addition patches) and replacing invalid bytes rather
// than failing.
func (a *Applier) readTarget(ctx context.Context, target string) (string, error) {
	exists, err := a.fs.Exists(ctx, target)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}
	raw, err := a.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}

// backup writes a timestamped copy of the pre-edit content under
// <backups>/<dir-of-file>/<name>.bak.<stamp>. It is best-effort: a failure
// is logged and swallowed so that it never blocks the actual write.
func (a *Applier) backup(ctx context.Context, relPath, content string, opts Options) {
	base := opts.BackupsDir
	if !isAbsoluteLocation(base) {
		base = url.Join(opts.RepoRoot, base)
	}
	name := path.Base(relPath) + ".bak." + clock.Now().Format("20060102-150405")
	dest := url.Join(base, name)
	if dir := path.Dir(relPath); dir != "." && dir != "/" {
		dest = url.Join(base, dir, name)
	}
	if err := a.fs.Upload(ctx, dest, file.DefaultFileOsMode, strings.NewReader(content)); err != nil {
		a.log.Warn("backup failed", zap.String("url", dest), zap.Error(err))
	}
}

func isAbsoluteLocation(p string) bool {
	return strings.Contains(p, "://") || strings.HasPrefix(p, "/")
}
