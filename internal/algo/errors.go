package algo

import (
	"errors"
	"fmt"
)

var ErrNoRoute = errors.New("no route")

// NoRouteError means both endpoints exist but end is unreachable from start.
type NoRouteError struct {
	Start, End string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route from '%s' to '%s'", e.Start, e.End)
}

func (e *NoRouteError) Is(target error) bool {
	return target == ErrNoRoute
}
