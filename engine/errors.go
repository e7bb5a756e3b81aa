package engine

import "fmt"

// InvariantViolationError reports a call that would break a core
// invariant of the engine: infecting an already-infected node, recovering
// a non-infected node, or recovering a recovered (SIR) node. These
// indicate API misuse or an engine bug and are never retried.
type InvariantViolationError struct {
	Node int
	Op   string
	From string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("engine: invariant violation: cannot %s node %d in state %s", e.Op, e.Node, e.From)
}

// OutOfRangeError reports a user-supplied rate function returning a
// value outside the envelope declared for the scheduler it feeds.
type OutOfRangeError struct {
	Value      float64
	Wmin, Wmax float64
	Context    string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("engine: rate %g for %s outside declared envelope [%g, %g]", e.Value, e.Context, e.Wmin, e.Wmax)
}
