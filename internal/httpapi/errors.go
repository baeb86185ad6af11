package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"devblog/internal/domain"
)

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string            `json:"status"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "error",
		Message:        "Invalid request.",
	}
}

// errorResponse maps an error from the core to its HTTP shape.
func errorResponse(err error) *ErrResponse {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusBadRequest,
			StatusText:     "error",
			Message:        "Please correct the errors below.",
			Fields:         verr.Fields,
		}
	case errors.Is(err, domain.ErrNotFound):
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusNotFound, StatusText: "error", Message: "Not found."}
	case errors.Is(err, domain.ErrUnauthorized):
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusUnauthorized, StatusText: "error", Message: "Authentication required."}
	case errors.Is(err, domain.ErrConflict):
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusConflict, StatusText: "error", Message: "The record was changed concurrently, please retry."}
	case errors.Is(err, domain.ErrCategoryInUse):
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusConflict, StatusText: "error", Message: "Category is still in use."}
	default:
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusInternalServerError, StatusText: "error", Message: "Internal server error."}
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse(err)
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	s.respond(w, r, resp)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		s.logger.Error("render response", "error", err)
	}
}
