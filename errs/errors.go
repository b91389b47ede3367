// Package errs defines the scheduler-wide error kinds from the error
// handling design: StorageError lives in the state package since it is
// purely a DatabaseRef concern; the remaining three kinds are shared
// by txdep and executor and live here so neither has to import
// scheduler, which imports both.
package errs

import "fmt"

// InvariantViolation means the scheduler detected an impossible state
// (e.g. a dependency-graph update that changes the batch size). It is
// fatal to the batch: ParallelExecute aborts and returns this error.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return fmt.Sprintf("invariant violation: %s", e.Msg) }

// NewInvariantViolation constructs an InvariantViolation with a
// formatted message.
func NewInvariantViolation(format string, args ...any) error {
	return &InvariantViolation{Msg: fmt.Sprintf(format, args...)}
}

// ExecutionError means the black-box TxExecutor raised an
// unrecoverable internal error for one transaction. It is recorded on
// that transaction's TxResult; other transactions proceed normally.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string { return fmt.Sprintf("execution error: %v", e.Err) }
func (e *ExecutionError) Unwrap() error { return e.Err }

// NewExecutionError wraps err as an ExecutionError.
func NewExecutionError(err error) error {
	if err == nil {
		return nil
	}
	return &ExecutionError{Err: err}
}

// Revert marks a normal EVM-level revert: not an error from the
// scheduler's perspective, but distinguished from StatusOk so callers
// can tell the two apart without inspecting logs.
type Revert struct {
	Reason string
}

func (e *Revert) Error() string { return fmt.Sprintf("reverted: %s", e.Reason) }
