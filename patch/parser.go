package patch

import (
	"regexp"
	"strconv"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"
)

var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseMultiFile parses a (possibly multi-file) unified diff into file
// patches. Well-formed input goes through sourcegraph/go-diff; anything it
// rejects is re-scanned leniently so that a malformed section drops out
// instead of failing the whole batch. The function never returns an error:
// unparseable input yields an empty result, favouring "apply nothing" over
// crashing a batch of otherwise-good patches.
func ParseMultiFile(text string) []FilePatch {
	if patches, ok := parseStrict(text); ok {
		return patches
	}
	return scanMultiFile(text)
}

// ParseFragments parses {path, unified_diff} records. Fragments that carry
// their own ---/+++ headers are trusted (the parsed file matching the
// declared path is selected, defaulting to the first); header-less fragments
// get a minimal header pair synthesised around them, so a producer that only
// ever emits hunk bodies still parses correctly.
func ParseFragments(records []Record) []FilePatch {
	out := make([]FilePatch, 0, len(records))
	for _, r := range records {
		out = append(out, parseFragment(r))
	}
	return out
}

func parseFragment(r Record) FilePatch {
	if strings.HasPrefix(r.UnifiedDiff, "--- ") {
		patches := ParseMultiFile(r.UnifiedDiff)
		for _, fp := range patches {
			if r.Path == "" || fp.Path == r.Path {
				return fp
			}
		}
		if len(patches) > 0 {
			return patches[0]
		}
		return FilePatch{Path: r.Path}
	}
	synthetic := "--- a/" + r.Path + "\n+++ b/" + r.Path + "\n" + r.UnifiedDiff
	patches := ParseMultiFile(synthetic)
	if len(patches) == 0 {
		return FilePatch{Path: r.Path}
	}
	return patches[0]
}

// parseStrict converts a sourcegraph/go-diff parse. ok is false when the
// input does not parse strictly and the lenient scanner should take over.
func parseStrict(text string) ([]FilePatch, bool) {
	fileDiffs, err := sgdiff.ParseMultiFileDiff([]byte(text))
	if err != nil || len(fileDiffs) == 0 {
		return nil, false
	}
	var out []FilePatch
	for _, fd := range fileDiffs {
		if fd.NewName == "/dev/null" {
			// pure deletions are unsupported; skip the section
			continue
		}
		path := stripPathPrefix(fd.NewName)
		if path == "" {
			continue
		}
		fp := FilePatch{Path: path}
		for _, h := range fd.Hunks {
			hunk := Hunk{
				OldStart: int(h.OrigStartLine),
				OldCount: int(h.OrigLines),
				NewStart: int(h.NewStartLine),
				NewCount: int(h.NewLines),
			}
			for _, raw := range strings.SplitAfter(string(h.Body), "\n") {
				if raw == "" {
					continue
				}
				if line, ok := tagLine(raw); ok {
					hunk.Lines = append(hunk.Lines, line)
				}
			}
			fp.Hunks = append(fp.Hunks, hunk)
		}
		out = append(out, fp)
	}
	return out, true
}

// scanMultiFile is the lenient fallback: a file section begins at a "--- "
// line whose paired "+++ " line (found by scanning forward) supplies the
// target path; hunk bodies are collected until the next hunk or file header,
// with unprefixed lines kept as context rather than rejected.
func scanMultiFile(text string) []FilePatch {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var patches []FilePatch
	var current *FilePatch
	flush := func() {
		if current != nil {
			patches = append(patches, *current)
			current = nil
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		if strings.HasPrefix(line, "--- ") {
			i++
			for i < len(lines) && !strings.HasPrefix(lines[i], "+++ ") {
				i++
			}
			if i >= len(lines) {
				break
			}
			path := headerPath(lines[i])
			i++
			flush()
			if path != "" {
				current = &FilePatch{Path: path}
			}
			// a /dev/null target leaves current nil so the section's
			// hunks are dropped
			continue
		}

		if m := hunkHeader.FindStringSubmatch(line); m != nil {
			if current == nil {
				i++
				continue
			}
			h := Hunk{
				OldStart: atoiDefault(m[1], 1),
				OldCount: atoiDefault(m[2], 1),
				NewStart: atoiDefault(m[3], 1),
				NewCount: atoiDefault(m[4], 1),
			}
			i++
			for i < len(lines) {
				l := lines[i]
				if strings.HasPrefix(l, "--- ") || strings.HasPrefix(l, "+++ ") || hunkHeader.MatchString(l) {
					break
				}
				if tagged, ok := tagLine(l + "\n"); ok {
					h.Lines = append(h.Lines, tagged)
				}
				i++
			}
			current.Hunks = append(current.Hunks, h)
			continue
		}

		i++
	}
	flush()
	return patches
}

// tagLine classifies one raw hunk body line (terminator included). CRLF and
// CR terminators are canonicalised to LF so that a CRLF diff compares
// against LF buffers. The no-newline marker is discarded; an unprefixed
// line is treated as context so that minor malformation does not abort
// parsing.
func tagLine(raw string) (Line, bool) {
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")
	raw += "\n"
	switch raw[0] {
	case ' ':
		return Line{Kind: Context, Text: raw[1:]}, true
	case '+':
		return Line{Kind: Added, Text: raw[1:]}, true
	case '-':
		return Line{Kind: Removed, Text: raw[1:]}, true
	case '\\':
		return Line{}, false
	default:
		return Line{Kind: Context, Text: raw}, true
	}
}

// headerPath extracts the target path from a "+++ " line, stripping the
// a/ or b/ prefix and any timestamp suffix. A /dev/null target yields "".
func headerPath(plusLine string) string {
	p := strings.TrimSpace(plusLine[4:])
	if idx := strings.IndexByte(p, '\t'); idx >= 0 {
		p = p[:idx]
	}
	if p == "/dev/null" {
		return ""
	}
	return stripPathPrefix(p)
}

func stripPathPrefix(p string) string {
	if strings.HasPrefix(p, "a/") || strings.HasPrefix(p, "b/") {
		return p[2:]
	}
	return p
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
