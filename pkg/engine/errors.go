// ABOUTME: Typed error taxonomy for engine failures
// ABOUTME: Per-track load failures are isolated; only initialization is fatal
package engine

import "fmt"

// InitializationError means the audio clock could not be created. It is
// fatal: Initialize returns false and the engine must not be used.
type InitializationError struct {
	Cause error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("audio engine initialization failed: %v", e.Cause)
}

func (e *InitializationError) Unwrap() error { return e.Cause }

// FetchError means the source bytes were unreachable.
type FetchError struct {
	Path  string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %q: %v", e.Path, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// DecodeTimeoutError means the decode worker round-trip exceeded the
// configured ceiling.
type DecodeTimeoutError struct {
	ByteSize int
}

func (e *DecodeTimeoutError) Error() string {
	return fmt.Sprintf("decode timed out (%d bytes)", e.ByteSize)
}

// DecodeValidationError means the source format is unsupported or the file
// is corrupted.
type DecodeValidationError struct {
	Reason string
	Cause  error
}

func (e *DecodeValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode validation failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("decode validation failed: %s", e.Reason)
}

func (e *DecodeValidationError) Unwrap() error { return e.Cause }

// WorkerFailure means the isolated decode context failed to start or
// communicate.
type WorkerFailure struct {
	Cause error
}

func (e *WorkerFailure) Error() string {
	return fmt.Sprintf("decode worker failure: %v", e.Cause)
}

func (e *WorkerFailure) Unwrap() error { return e.Cause }

// GenericLoadError is the catch-all for track load failures, carrying label
// and size context for user-facing diagnostics.
type GenericLoadError struct {
	Label  string
	SizeMB float64
	Cause  error
}

func (e *GenericLoadError) Error() string {
	return fmt.Sprintf("failed to load %q (%.1f MB): %v", e.Label, e.SizeMB, e.Cause)
}

func (e *GenericLoadError) Unwrap() error { return e.Cause }
