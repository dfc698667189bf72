package types

import (
	"fmt"

	"github.com/juju/errors"
)

const (
	// ErrCodeHandlerError marks a handler that returned an error.
	ErrCodeHandlerError = "handler_error"
	// ErrCodeHandlerPanic marks a handler that panicked.
	ErrCodeHandlerPanic = "handler_panic"
)

var (
	_ error = &NodeError{}
)

/**
 * NodeError is the structured failure captured inside a NodeResult.
 * It never propagates as a Go error out of a node run, failure
 * isolation keeps it local to the result.
 */
type NodeError struct {
	Message string `json:",omitempty"`
	Code    string `json:",omitempty"`
	Details Data   `json:",omitempty"`
}

func (e *NodeError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNodeError(err error) *NodeError {
	return &NodeError{
		Message: err.Error(),
		Code:    ErrCodeHandlerError,
	}
}

func NewNodeErrorf(format string, args ...interface{}) *NodeError {
	return NewNodeError(errors.Errorf(format, args...))
}

/**
 * NodePanicError wraps a recovered panic value. The node id is kept in
 * Details so the record stays greppable.
 */
func NodePanicError(nodeID string, recovered any) *NodeError {
	ne := &NodeError{
		Message: fmt.Sprintf("panic on %s: %v", nodeID, recovered),
		Code:    ErrCodeHandlerPanic,
	}
	ne.Details = Data{}
	ne.Details.Set("node_id", nodeID)
	return ne
}

func NewExecutionError(err error) *ExecutionError {
	if err == nil {
		return nil
	}
	return &ExecutionError{
		Message: err.Error(),
		Stack:   errors.ErrorStack(err),
	}
}
