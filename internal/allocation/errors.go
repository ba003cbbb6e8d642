package allocation

import "fmt"

// InvariantError reports a violation of the single-assignment invariant
// (C3). Per SPEC_FULL §7 this should be unreachable given correct
// solvers; the facade (C10) classifies it as a SchedulingError.
type InvariantError struct {
	Assertion string
	TaskID    string
	NodeID    string
}

func (e *InvariantError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: task %q -> node %q", e.Assertion, e.TaskID, e.NodeID)
	}
	return fmt.Sprintf("%s: task %q", e.Assertion, e.TaskID)
}

// ErrUnassignedTask reports a task missing from the final mapping.
func ErrUnassignedTask(taskID string) error {
	return &InvariantError{Assertion: "unassigned-task", TaskID: taskID}
}

// ErrUnknownNode reports a mapping entry naming a node absent from the
// index.
func ErrUnknownNode(taskID, nodeID string) error {
	return &InvariantError{Assertion: "unknown-node-reference", TaskID: taskID, NodeID: nodeID}
}
