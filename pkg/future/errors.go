package future

import "fmt"

// OpError wraps the stored failure returned from Get. Unwrap yields the
// executor's original error chain.
type OpError struct {
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("operation failed: %s", e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// TimeoutError reports that a bounded wait elapsed before the action
// resolved. The action itself is untouched and may still resolve.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for result: %s", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// CanceledError is the failure stored by a successful Cancel.
type CanceledError struct{}

func (e *CanceledError) Error() string { return "operation canceled" }
