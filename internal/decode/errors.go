// ABOUTME: Typed decode failures
// ABOUTME: Distinguishes timeout, validation, and worker faults for callers
package decode

import "fmt"

// TimeoutError reports that the validation worker round-trip exceeded the
// coordinator's wall-clock ceiling.
type TimeoutError struct {
	ByteSize int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("decode timed out (%d bytes)", e.ByteSize)
}

// ValidationError reports an unsupported or corrupted source file.
type ValidationError struct {
	Reason string
	Cause  error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// WorkerError reports that the validation worker itself failed.
type WorkerError struct {
	Cause error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("decode worker failed: %v", e.Cause)
}

func (e *WorkerError) Unwrap() error { return e.Cause }
