package patch

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

var hspace = regexp.MustCompile(`[ \t]+`)

// collapseSpace folds runs of horizontal whitespace into a single space and
// drops trailing whitespace, keeping the line terminator when present.
func collapseSpace(s string) string {
	hadNewline := strings.HasSuffix(s, "\n")
	t := hspace.ReplaceAllString(strings.TrimRight(s, " \t\r\n"), " ")
	if hadNewline {
		t += "\n"
	}
	return t
}

// normalizeLines returns the comparison view of lines: verbatim unless
// whitespace-insensitive matching is requested.
func normalizeLines(lines []string, ignoreSpace bool) []string {
	if !ignoreSpace {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = collapseSpace(l)
	}
	return out
}

// normalizeNewlines canonicalises CRLF and lone CR terminators to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// similarity scores a against b with a character-level sequence-matcher
// ratio in [0,1]. Two empty strings score 1.
func similarity(a, b string) float64 {
	return difflib.NewMatcher(explode(a), explode(b)).Ratio()
}

func explode(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// splitLines splits text into lines preserving terminators. The final line
// may lack one when the text does not end with a newline; empty text yields
// an empty buffer.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
