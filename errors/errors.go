package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in the bootstrap the error occurred
type Phase string

const (
	PhaseLoad      Phase = "load"      // native binary resolution and linking
	PhaseBootstrap Phase = "bootstrap" // coordinator sequence
	PhaseHost      Phase = "host"      // host environment accessors
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseInit      Phase = "init"      // native initialization call
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindLinkFailure  Kind = "link_failure"
	KindConflict     Kind = "conflict"
	KindHost         Kind = "host"
	KindInvalidInput Kind = "invalid_input"
	KindUnsupported  Kind = "unsupported"
)

// Kind sentinels. They carry no phase, so errors.Is matches any phase.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrLinkFailure  = &Error{Kind: KindLinkFailure}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrHost         = &Error{Kind: KindHost}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout the module
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	Library string
	Symbol  string
	Detail  string
	Path    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Library != "" {
		b.WriteString(" library ")
		b.WriteString(e.Library)
	}
	if e.Symbol != "" {
		b.WriteString(" symbol ")
		b.WriteString(e.Symbol)
	}
	if e.Path != "" {
		b.WriteString(" path ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Library sets the library name or file involved
func (b *Builder) Library(name string) *Builder {
	b.err.Library = name
	return b
}

// Symbol sets the native symbol involved
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Path sets the storage path involved
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotFound creates an error for a library that could not be located.
// searched lists the candidate files that were tried.
func NotFound(library string, searched []string) *Error {
	e := &Error{
		Phase:   PhaseLoad,
		Kind:    KindNotFound,
		Library: library,
	}
	if len(searched) > 0 {
		e.Detail = "searched " + strings.Join(searched, ", ")
	}
	return e
}

// LinkFailure creates an error for a library that was found but could not be
// opened or lacks the required symbol.
func LinkFailure(library, symbol string, cause error) *Error {
	return &Error{
		Phase:   PhaseLoad,
		Kind:    KindLinkFailure,
		Library: library,
		Symbol:  symbol,
		Cause:   cause,
	}
}

// Conflict creates an error for a second initialization with a different path
func Conflict(initialized, requested string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindConflict,
		Path:   requested,
		Detail: fmt.Sprintf("engine already initialized with %q", initialized),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an error for a feature the current platform lacks
func Unsupported(phase Phase, feature string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: feature + " not supported",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
