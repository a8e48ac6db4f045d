// Package session holds edits proposed by an upstream planner until a
// caller approves or discards them. The staging state is an explicit object
// passed by reference, never package-level, so multiple sessions and tests
// run in isolation.
package session

import (
	"context"
	"sync"

	"github.com/fathomlabs/driftpatch/internal/idgen"
	"github.com/fathomlabs/driftpatch/patch"
)

// Edit is one proposed change: either a full-body write or a diff patch.
// Consumers must switch exhaustively over the two shapes.
type Edit interface{ editMarker() }

// Write proposes replacing a file's whole content.
type Write struct {
	Path    string
	Content string
}

func (Write) editMarker() {}

// Patch proposes a unified-diff edit.
type Patch struct {
	FilePatch patch.FilePatch
}

func (Patch) editMarker() {}

// Session accumulates staged edits for one approval cycle.
type Session struct {
	id string

	mu    sync.Mutex
	edits []Edit
}

// New creates an empty session with a unique identifier.
func New() *Session {
	return &Session{id: idgen.New()}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Stage appends proposed edits in order.
func (s *Session) Stage(edits ...Edit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits = append(s.edits, edits...)
}

// Edits returns a snapshot of the staged edits.
func (s *Session) Edits() []Edit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Edit, len(s.edits))
	copy(out, s.edits)
	return out
}

// Clear discards all staged edits.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits = nil
}

// Review runs the staged edits in dry-run mode and reports what would
// change; no file is written.
func (s *Session) Review(ctx context.Context, applier *patch.Applier, opts patch.Options) []patch.FileReport {
	opts.DryRun = true
	return s.runAll(ctx, applier, opts)
}

// Approve applies the staged edits for real and clears the session. The
// caller is expected to have shown a Review report and obtained
// confirmation first.
func (s *Session) Approve(ctx context.Context, applier *patch.Applier, opts patch.Options) []patch.FileReport {
	opts.DryRun = false
	reports := s.runAll(ctx, applier, opts)
	s.Clear()
	return reports
}

func (s *Session) runAll(ctx context.Context, applier *patch.Applier, opts patch.Options) []patch.FileReport {
	var reports []patch.FileReport
	for _, e := range s.Edits() {
		switch edit := e.(type) {
		case Write:
			reports = append(reports, applier.ApplyWrite(ctx, patch.FileWrite{Path: edit.Path, Content: edit.Content}, opts))
		case Patch:
			reports = append(reports, applier.ApplyFile(ctx, edit.FilePatch, opts))
		}
	}
	return reports
}
