package patch

import (
	"fmt"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Some model integrations emit edits wrapped in a "*** Begin Patch"
// envelope instead of a plain unified diff. This parser maps Update
// sections onto FilePatches and Add sections onto full-body writes; Delete
// sections and Move lines are file removals/renames, which this engine does
// not perform, so they are skipped.

// IsEnvelope reports whether text looks like a patch envelope rather than a
// unified diff.
func IsEnvelope(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "*** Begin Patch")
}

// ParseEnvelope parses an envelope into file patches and full-body writes.
// Consistent with the unified-diff parsers it never fails: a malformed
// envelope yields empty results.
func ParseEnvelope(text string) ([]FilePatch, []FileWrite) {
	p := &envelopeParser{cursor: parsly.NewCursor("envelope", []byte(strings.TrimSpace(text)), 0)}
	patches, writes, err := p.parse()
	if err != nil {
		return nil, nil
	}
	return patches, writes
}

// Token codes start at 1 to avoid clashing with parsly.EOF.
const (
	tBeginPatch = iota + 1
	tEndPatch
	tAddFile
	tDeleteFile
	tUpdateFile
	tMoveTo
	tChunkHeaderCtx
	tChunkHeaderBare
	tEndOfFile
)

var (
	envWS = parsly.NewToken(0, "WS", matcher.NewWhiteSpace())

	envBeginPatch = parsly.NewToken(tBeginPatch, "BeginPatch", matcher.NewFragment("*** Begin Patch"))
	envEndPatch   = parsly.NewToken(tEndPatch, "EndPatch", matcher.NewFragment("*** End Patch"))

	envAddFile    = parsly.NewToken(tAddFile, "AddFile", matcher.NewFragment("*** Add File:"))
	envDeleteFile = parsly.NewToken(tDeleteFile, "DeleteFile", matcher.NewFragment("*** Delete File:"))
	envUpdateFile = parsly.NewToken(tUpdateFile, "UpdateFile", matcher.NewFragment("*** Update File:"))
	envMoveTo     = parsly.NewToken(tMoveTo, "MoveTo", matcher.NewFragment("*** Move to:"))

	envChunkCtx  = parsly.NewToken(tChunkHeaderCtx, "ChunkCtx", matcher.NewFragment("@@ "))
	envChunkBare = parsly.NewToken(tChunkHeaderBare, "ChunkBare", matcher.NewFragment("@@"))

	envEOFMarker = parsly.NewToken(tEndOfFile, "EOFMarker", matcher.NewFragment("*** End of File"))
)

type envelopeParser struct {
	cursor *parsly.Cursor
}

func (p *envelopeParser) parse() ([]FilePatch, []FileWrite, error) {
	cur := p.cursor
	if cur.MatchOne(envBeginPatch).Code != tBeginPatch {
		return nil, nil, cur.NewError(envBeginPatch)
	}
	p.consumeLine()

	var patches []FilePatch
	var writes []FileWrite

	for {
		match := cur.MatchAfterOptional(envWS, envEndPatch, envAddFile, envDeleteFile, envUpdateFile)
		switch match.Code {
		case tEndPatch:
			p.consumeLine()
			p.skipWhitespace()
			if cur.HasMore() {
				return nil, nil, fmt.Errorf("unexpected content after '*** End Patch'")
			}
			return patches, writes, nil

		case tAddFile:
			writes = append(writes, p.parseAdd())

		case tDeleteFile:
			// deletion is unsupported; consume the path line and move on
			p.consumeLine()

		case tUpdateFile:
			fp, err := p.parseUpdate()
			if err != nil {
				return nil, nil, err
			}
			patches = append(patches, fp)

		case parsly.EOF:
			return nil, nil, fmt.Errorf("missing '*** End Patch'")

		default:
			return nil, nil, cur.NewError(envAddFile, envDeleteFile, envUpdateFile, envEndPatch)
		}
	}
}

func (p *envelopeParser) parseAdd() FileWrite {
	path := strings.TrimSpace(p.consumeLine())
	var b strings.Builder
	for {
		line := p.peekLine()
		if len(line) == 0 || line[0] != '+' {
			break
		}
		p.advance()
		b.WriteString(p.consumeLine())
		b.WriteByte('\n')
	}
	return FileWrite{Path: path, Content: b.String()}
}

func (p *envelopeParser) parseUpdate() (FilePatch, error) {
	cur := p.cursor
	path := strings.TrimSpace(p.consumeLine())

	// rename is a non-goal; the edit still targets the original path
	if cur.MatchAfterOptional(envWS, envMoveTo).Code == tMoveTo {
		p.consumeLine()
	}

	fp := FilePatch{Path: path}
	firstChunk := true
	for {
		if strings.HasPrefix(p.peekLine(), "***") {
			break
		}

		// the @@ header is optional for the first chunk only
		switch cur.MatchAfterOptional(envWS, envChunkCtx, envChunkBare).Code {
		case tChunkHeaderCtx, tChunkHeaderBare:
			p.consumeLine()
		default:
			if !firstChunk {
				return FilePatch{}, fmt.Errorf("expected @@ header in update section for %s", path)
			}
		}
		firstChunk = false

		var hunk Hunk
	lineLoop:
		for cur.HasMore() {
			l := p.peekLine()
			switch {
			case strings.HasPrefix(l, "*** End of File"):
				p.consumeLine()
				break lineLoop
			case strings.HasPrefix(l, "@@"), strings.HasPrefix(l, "***"):
				break lineLoop
			case len(l) == 0:
				p.consumeLine()
				hunk.Lines = append(hunk.Lines, Line{Kind: Context, Text: "\n"})
			case l[0] == '+':
				p.advance()
				hunk.Lines = append(hunk.Lines, Line{Kind: Added, Text: p.consumeLine() + "\n"})
			case l[0] == '-':
				p.advance()
				hunk.Lines = append(hunk.Lines, Line{Kind: Removed, Text: p.consumeLine() + "\n"})
			case l[0] == ' ':
				p.advance()
				hunk.Lines = append(hunk.Lines, Line{Kind: Context, Text: p.consumeLine() + "\n"})
			default:
				break lineLoop
			}
		}

		if len(hunk.Lines) == 0 {
			return FilePatch{}, fmt.Errorf("empty update chunk for %s", path)
		}
		fp.Hunks = append(fp.Hunks, hunk)

		if !strings.HasPrefix(p.peekLine(), "@@") {
			break
		}
	}
	return fp, nil
}

// low-level cursor helpers

// consumeLine consumes bytes up to and including the next newline and
// returns the text before it, without a CR terminator; at EOF it returns
// the remainder.
func (p *envelopeParser) consumeLine() string {
	cur := p.cursor
	start := cur.Pos
	for cur.Pos < cur.InputSize {
		if cur.Input[cur.Pos] == '\n' {
			text := string(cur.Input[start:cur.Pos])
			cur.Pos++
			return strings.TrimSuffix(text, "\r")
		}
		cur.Pos++
	}
	return strings.TrimSuffix(string(cur.Input[start:]), "\r")
}

func (p *envelopeParser) advance() {
	if p.cursor.Pos < p.cursor.InputSize {
		p.cursor.Pos++
	}
}

func (p *envelopeParser) peekLine() string {
	cur := p.cursor
	i := cur.Pos
	for i < cur.InputSize && cur.Input[i] != '\n' {
		i++
	}
	return strings.TrimSuffix(string(cur.Input[cur.Pos:i]), "\r")
}

func (p *envelopeParser) skipWhitespace() {
	cur := p.cursor
	for cur.Pos < cur.InputSize {
		switch cur.Input[cur.Pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			cur.Pos++
		default:
			return
		}
	}
}
