package types

import (
	"context"
)

type ExecutionStatus int32

const (
	StatusNone      ExecutionStatus = 0
	StatusCreated   ExecutionStatus = 1
	StatusRunning   ExecutionStatus = 2
	StatusCompleted ExecutionStatus = 3
	StatusFailed    ExecutionStatus = 4
)

func (s ExecutionStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	}
	return "none"
}

func (s ExecutionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

/**
 * CanTransition reports whether an execution may move from one status
 * to the other. Transitions only run forward and terminal statuses are
 * immutable.
 */
func CanTransition(from, to ExecutionStatus) bool {
	switch to {
	case StatusRunning:
		return from == StatusCreated
	case StatusCompleted, StatusFailed:
		return from == StatusRunning
	default:
		return false
	}
}

type NodeStatus int32

const (
	NodeStatusNone    NodeStatus = 0
	NodeStatusSuccess NodeStatus = 1
	NodeStatusFailed  NodeStatus = 2
)

func (s NodeStatus) String() string {
	switch s {
	case NodeStatusSuccess:
		return "success"
	case NodeStatusFailed:
		return "failed"
	}
	return "none"
}

type Context interface {
	context.Context

	GetExecutionID() string
	GetWorkflowID() string
}
