// Package compileerr defines the compiler's error taxonomy (spec.md §7):
// kinds, not exception types. Every stage either hands its artifact to the
// next stage or returns one of these, wrapped with github.com/pkg/errors so
// the offending path and stage travel with the cause.
package compileerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is a closed set of error categories (spec.md §7). It is not a
// replacement for Go's error interface: CompileError implements error and
// carries a Kind for callers (the driver, the CLI) that need to branch on
// category rather than message text.
type Kind int

const (
	IOFailure Kind = iota
	ParseError
	CapacityOverflow
	UnknownMacro
	UnsupportedArch
	MalformedMetadata
)

func (k Kind) String() string {
	switch k {
	case IOFailure:
		return "I/O failure"
	case ParseError:
		return "parse error"
	case CapacityOverflow:
		return "capacity overflow"
	case UnknownMacro:
		return "unknown macro"
	case UnsupportedArch:
		return "unsupported architecture"
	case MalformedMetadata:
		return "malformed metadata"
	}
	return "unknown error kind"
}

// CompileError names the stage and path a failure occurred at, per spec.md
// §7's propagation policy: there is no partial artifact committed on
// failure, so every CompileError is terminal for its stage.
type CompileError struct {
	Kind  Kind
	Stage string
	Path  string
	cause error
}

func (e *CompileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Stage, e.Kind, e.Path, e.cause)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.cause)
}

func (e *CompileError) Unwrap() error { return e.cause }

// New wraps cause into a CompileError, attaching a stack via pkg/errors so a
// "%+v" format on the top-level error prints the originating call site.
func New(kind Kind, stage, path string, cause error) *CompileError {
	return &CompileError{Kind: kind, Stage: stage, Path: path, cause: errors.WithStack(cause)}
}

// Newf builds a CompileError from a format string, the way a stage reports
// a violated invariant that has no underlying os/io error to wrap.
func Newf(kind Kind, stage, path, format string, args ...interface{}) *CompileError {
	return New(kind, stage, path, errors.Errorf(format, args...))
}
