package driftpatch

import (
	"github.com/viant/afs"
	"go.uber.org/zap"
)

// Option customises the Service.
type Option func(*Service)

// WithFS overrides the abstract file system, e.g. mem:// in tests.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithLogger sets the logger used for best-effort failures such as backups.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}
