// Package errors provides structured error types for the engine bootstrap.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the library, symbol and storage path involved, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindLinkFailure).
//		Library("/usr/lib/libisar.so").
//		Symbol("isar_initialize_path").
//		Cause(dlErr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound("isar", searched)
//	err := errors.LinkFailure(path, symbol, cause)
//
// Kind sentinels match an error of that kind in any phase:
//
//	if errors.Is(err, errors.ErrNotFound) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
