// Package filesystem provides filesystem implementations for scaffup.
//
// This package contains implementations of the types.FS interface,
// the standard OS filesystem and an afero-backed one for tests, plus the
// Loader that reads final file contents after a copier run.
package filesystem
