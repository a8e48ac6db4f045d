package patch

import (
	"github.com/pmezard/go-difflib/difflib"
)

// renderPreview produces a standard unified diff (3 lines of context) of
// before vs after for human review. It never touches disk.
func renderPreview(before, after []string, path string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        before,
		B:        after,
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return text
}

// countChangedLines reports how many lines differ between the two buffers.
// A replaced span counts once per affected line, not once per side, so a
// single-line substitution counts as one changed line.
func countChangedLines(before, after []string) int {
	total := 0
	for _, op := range difflib.NewMatcher(before, after).GetOpCodes() {
		switch op.Tag {
		case 'r':
			deleted := op.I2 - op.I1
			inserted := op.J2 - op.J1
			if inserted > deleted {
				total += inserted
			} else {
				total += deleted
			}
		case 'd':
			total += op.I2 - op.I1
		case 'i':
			total += op.J2 - op.J1
		}
	}
	return total
}
