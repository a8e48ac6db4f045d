package patch

// LineKind tags a single hunk line.
type LineKind uint8

const (
	// Context lines appear in both the pre- and post-image.
	Context LineKind = iota
	// Removed lines appear only in the pre-image.
	Removed
	// Added lines appear only in the post-image.
	Added
)

// Line is one tagged line of a hunk body. Text keeps its trailing newline so
// that chunks compare directly against file buffers split with terminators.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is one contiguous region of change in a unified diff. The range
// fields mirror the @@ header but are hints only: positioning is driven
// entirely by context content, never by the declared line numbers.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// OldChunk returns the hunk's expected pre-image: context plus removed lines
// in order, prefixes stripped.
func (h *Hunk) OldChunk() []string {
	out := make([]string, 0, len(h.Lines))
	for _, l := range h.Lines {
		if l.Kind == Context || l.Kind == Removed {
			out = append(out, l.Text)
		}
	}
	return out
}

// NewChunk returns the hunk's desired post-image: context plus added lines
// in order, prefixes stripped.
func (h *Hunk) NewChunk() []string {
	out := make([]string, 0, len(h.Lines))
	for _, l := range h.Lines {
		if l.Kind == Context || l.Kind == Added {
			out = append(out, l.Text)
		}
	}
	return out
}

// FilePatch is an ordered sequence of hunks targeting one file. Hunks are
// applied in order against the evolving buffer, so a later hunk may depend
// on an edit made by an earlier one.
type FilePatch struct {
	Path  string
	Hunks []Hunk
}

// FileWrite proposes replacing a file's entire content, as produced by an
// envelope Add section or an upstream full-body edit.
type FileWrite struct {
	Path    string
	Content string
}

// Record is the {path, unified_diff} input shape: a per-file diff fragment
// that may or may not carry its own ---/+++ headers.
type Record struct {
	Path        string `json:"path"`
	UnifiedDiff string `json:"unified_diff"`
}
