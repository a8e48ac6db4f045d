// Package driftpatch applies proposed unified-diff edits to text files,
// tolerating line-number drift and minor context mismatch. Hunks are
// positioned by content, never by the line numbers declared in their
// headers: each hunk's pre-image is searched for exactly, then checked for
// being already applied, then fuzzily anchored against nearby-length
// windows, and accepted only above a similarity cutoff. Every outcome is
// captured in per-hunk and per-file reports so that a caller can run a
// dry-run, obtain human approval, and only then apply for real.
//
// Binary patches, renames/copies, permission-bit changes and version
// control index metadata are out of scope; such input is skipped rather
// than treated as fatal.
package driftpatch
