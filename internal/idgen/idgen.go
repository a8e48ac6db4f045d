// Package idgen wraps the UUID generator so it can be stubbed in tests.
// Callers must treat the identifiers as opaque strings.
package idgen

import "github.com/google/uuid"

// NewFunc produces a globally unique identifier. Override in tests.
var NewFunc = func() string { return uuid.New().String() }

// New returns a fresh identifier.
func New() string { return NewFunc() }
