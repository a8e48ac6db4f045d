package patch

import (
	"fmt"
	"strings"
)

// outcome captures one hunk application attempt.
type outcome struct {
	applied bool
	already bool
	exact   bool
	ratio   float64
	notes   string
}

// applyHunk tries to splice h into lines and returns the updated buffer.
// Decision steps run in strict order, each only when the previous one failed
// to decide:
//
//  1. exact match of the pre-image chunk, splice post-image verbatim
//  2. post-image already present, safe no-op
//  3. windowed fuzzy anchor search, accepted only at or above the cutoff
//
// On rejection the buffer is returned unmodified.
func applyHunk(lines []string, h Hunk, opts Options) ([]string, outcome) {
	oldChunk := h.OldChunk()
	newChunk := h.NewChunk()

	nLines := normalizeLines(lines, opts.IgnoreSpace)
	nOld := normalizeLines(oldChunk, opts.IgnoreSpace)
	nNew := normalizeLines(newChunk, opts.IgnoreSpace)

	if start := findSubSlice(nLines, nOld); start >= 0 {
		return replaceSlice(lines, start, len(oldChunk), newChunk),
			outcome{applied: true, exact: true, ratio: 1.0}
	}

	if findSubSlice(nLines, nNew) >= 0 {
		return lines, outcome{already: true, exact: true, ratio: 1.0, notes: "already applied"}
	}

	ratio, start, end := fuzzyAnchor(nLines, nOld, opts)
	if start >= 0 && ratio >= opts.RatioCutoff {
		return replaceSlice(lines, start, end-start, newChunk),
			outcome{applied: true, ratio: ratio, notes: fmt.Sprintf("fuzzy match at lines %d:%d", start, end)}
	}
	if ratio < 0 {
		ratio = 0
	}
	return lines, outcome{ratio: ratio, notes: "no suitable anchor"}
}

// fuzzyAnchor scans windows whose length is near the old chunk's and returns
// the best-scoring span. Window length ranges over [max(1,L-slack), L+slack]
// and candidates are sampled evenly so that at most opts.MaxCandidates
// windows are scored; the true optimum may be missed on very large files,
// but an accepted match still had to clear the ratio cutoff.
func fuzzyAnchor(nLines, nOld []string, opts Options) (ratio float64, start, end int) {
	targetLen := len(nOld)
	if targetLen < 1 {
		targetLen = 1
	}
	slack := opts.WindowSlack
	if slack <= 0 {
		slack = targetLen / 3
		if slack < 3 {
			slack = 3
		}
		if slack > 12 {
			slack = 12
		}
	}
	minLen := targetLen - slack
	if minLen < 1 {
		minLen = 1
	}

	type span struct{ i, j int }
	var candidates []span
	for s := 0; s+minLen <= len(nLines); s++ {
		maxLen := targetLen + slack
		if rest := len(nLines) - s; maxLen > rest {
			maxLen = rest
		}
		for l := minLen; l <= maxLen; l++ {
			candidates = append(candidates, span{s, s + l})
		}
	}
	if len(candidates) == 0 {
		return -1, -1, -1
	}

	maxCandidates := opts.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	step := len(candidates) / maxCandidates
	if step < 1 {
		step = 1
	}

	ref := strings.Join(nOld, "")
	ratio, start, end = -1, -1, -1
	for k := 0; k < len(candidates); k += step {
		c := candidates[k]
		if r := similarity(strings.Join(nLines[c.i:c.j], ""), ref); r > ratio {
			ratio, start, end = r, c.i, c.j
		}
	}
	return ratio, start, end
}

// findSubSlice returns the first index of needle as a contiguous run inside
// haystack, or -1. An empty needle matches at index 0.
func findSubSlice(hay, need []string) int {
Outer:
	for i := 0; i <= len(hay)-len(need); i++ {
		for j := range need {
			if hay[i+j] != need[j] {
				continue Outer
			}
		}
		return i
	}
	return -1
}

// replaceSlice replaces count lines of src starting at start with repl.
func replaceSlice(src []string, start, count int, repl []string) []string {
	out := make([]string, 0, len(src)-count+len(repl))
	out = append(out, src[:start]...)
	out = append(out, repl...)
	return append(out, src[start+count:]...)
}
