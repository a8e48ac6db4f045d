package patch

// Defaults applied by Options.withDefaults.
const (
	DefaultRatioCutoff   = 0.66
	DefaultBackupsDir    = ".driftpatch/backups"
	DefaultMaxCandidates = 2000
)

// Options control a single apply run. The zero value is not useful on its
// own; start from DefaultOptions and override.
type Options struct {
	// DryRun computes reports and previews without writing any file.
	DryRun bool
	// RepoRoot is the resolution base for relative patch paths. It may be a
	// plain directory or any afs URL (mem://, file://, ...).
	RepoRoot string
	// RatioCutoff is the minimum similarity required to accept a fuzzy
	// anchor; values outside (0,1] select the default 0.66.
	RatioCutoff float64
	// IgnoreSpace collapses runs of horizontal whitespace before comparing.
	IgnoreSpace bool
	// NormalizeNewlines canonicalises CRLF/CR to LF before any comparison
	// or write.
	NormalizeNewlines bool
	// BackupsDir receives timestamped copies of pre-edit content.
	BackupsDir string
	// GeneratePreview renders a unified diff of before vs after per file.
	GeneratePreview bool
	// PathFilter, when set, restricts processing to files whose path
	// contains the substring.
	PathFilter string

	// Fuzzy-search tuning. The built-in heuristics (slack clamped to 3..12
	// around a third of the chunk length, at most 2000 scored windows) are
	// empirically chosen, not load-bearing; tests raise MaxCandidates to
	// force an exhaustive scan on small inputs.
	WindowSlack   int
	MaxCandidates int
}

// DefaultOptions returns the conservative defaults: dry-run, newline
// normalisation and previews on.
func DefaultOptions() Options {
	return Options{
		DryRun:            true,
		RepoRoot:          ".",
		RatioCutoff:       DefaultRatioCutoff,
		NormalizeNewlines: true,
		BackupsDir:        DefaultBackupsDir,
		GeneratePreview:   true,
	}
}

func (o Options) withDefaults() Options {
	if o.RepoRoot == "" {
		o.RepoRoot = "."
	}
	if o.RatioCutoff <= 0 {
		o.RatioCutoff = DefaultRatioCutoff
	}
	if o.RatioCutoff > 1 {
		o.RatioCutoff = 1
	}
	if o.BackupsDir == "" {
		o.BackupsDir = DefaultBackupsDir
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	return o
}
