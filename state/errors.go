package state

import "fmt"

// StorageError wraps a failure from the backing DatabaseRef. It is
// surfaced on the affected TxResult as StatusError; it never aborts
// the batch by itself (see errs.InvariantViolation for the one error
// kind that does).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err with the operation name that failed.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
