package graph

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownNode = errors.New("unknown node")

	ErrEmptyNodeID       = errors.New("empty node id")
	ErrSelfLoop          = errors.New("self loop")
	ErrNonPositiveWeight = errors.New("edge weight must be positive")
	ErrAsymmetricEdge    = errors.New("asymmetric edge")
	ErrDanglingNeighbor  = errors.New("neighbor is not a node")
)

const (
	RoleStart = "start"
	RoleEnd   = "end"
)

// UnknownNodeError reports an identifier that is not part of the graph.
// Role says which query endpoint it was, and is empty outside a route query.
type UnknownNodeError struct {
	ID   string
	Role string
}

func (e *UnknownNodeError) Error() string {
	switch e.Role {
	case RoleStart:
		return fmt.Sprintf("Start location '%s' not found", e.ID)
	case RoleEnd:
		return fmt.Sprintf("End location '%s' not found", e.ID)
	}
	return fmt.Sprintf("location '%s' not found", e.ID)
}

func (e *UnknownNodeError) Is(target error) bool {
	return target == ErrUnknownNode
}
