package api

import (
	"errors"
	"net/http"

	"github.com/atharv3903/logiroute/internal/algo"
	"github.com/atharv3903/logiroute/internal/graph"
	"github.com/atharv3903/logiroute/internal/service"
	"github.com/go-chi/render"
)

type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText    string   `json:"status"`
	Detail        string   `json:"detail,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		Detail:         err.Error(),
	}
}

func ErrValidation(err error, vv []string) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		Detail:         err.Error(),
		ErrValidation:  vv,
	}
}

func ErrTooManyRequests() render.Renderer {
	return &ErrResponse{
		HTTPStatusCode: http.StatusTooManyRequests,
		StatusText:     "Too many requests.",
	}
}

// ErrRoute maps a routing failure onto a status code. Internal faults keep
// their message out of the response.
func ErrRoute(err error) render.Renderer {
	switch {
	case errors.Is(err, graph.ErrUnknownNode), errors.Is(err, algo.ErrNoRoute):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusNotFound,
			StatusText:     "Not found.",
			Detail:         err.Error(),
		}
	case errors.Is(err, service.ErrQueryTimeout):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusGatewayTimeout,
			StatusText:     "Route query timed out.",
			Detail:         service.ErrQueryTimeout.Error(),
		}
	default:
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusInternalServerError,
			StatusText:     "Internal server error.",
			Detail:         "internal server error",
		}
	}
}
