// Package errs defines the error kinds shared across the generation core.
// Callers match them with errors.Is after unwrapping.
package errs

import "errors"

var (
	// ErrConfig marks malformed or empty configuration: unknown domain or
	// mode, unparseable catalog entries, zero-weight sampling nodes.
	ErrConfig = errors.New("invalid configuration")

	// ErrTemplate marks an unresolved placeholder during prompt assembly.
	ErrTemplate = errors.New("template error")

	// ErrIndex marks an out-of-range catalog or cursor index. Surfacing it
	// means an internal invariant was violated.
	ErrIndex = errors.New("index out of range")
)
