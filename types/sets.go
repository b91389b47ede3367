package types

import mapset "github.com/deckarep/golang-set/v2"

// LocationSet is a set of Locations, used for both ReadSet and WriteSet
// (observed, post-execution) and for ExecutionHint (pre-execution
// prediction).
type LocationSet = mapset.Set[Location]

// NewLocationSet returns an empty LocationSet.
func NewLocationSet() LocationSet {
	return mapset.NewThreadUnsafeSet[Location]()
}

// Sorted returns the set's elements ordered by Location.Less, for
// deterministic iteration (logging, DOT export, tests).
func Sorted(s LocationSet) []Location {
	out := s.ToSlice()
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Less(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// ExecutionHint is the caller-supplied, best-effort prediction of a
// transaction's read and write sets, used only for scheduling. Hints
// need not be sound; actual safety comes from post-execution
// validation (see scheduler.validateAndCommit).
type ExecutionHint struct {
	ReadSet  LocationSet
	WriteSet LocationSet
}

// NewExecutionHint returns an ExecutionHint with empty read/write sets.
func NewExecutionHint() ExecutionHint {
	return ExecutionHint{ReadSet: NewLocationSet(), WriteSet: NewLocationSet()}
}
