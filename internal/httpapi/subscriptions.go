package httpapi

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"devblog/internal/domain"
)

const subscribed = "Thanks for subscribing!"

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	data := &SubscribeRequest{}
	if err := render.Bind(r, data); err != nil {
		renderJSON(w, r, http.StatusBadRequest, SubscribeResponse{Error: "Invalid request."})
		return
	}

	if _, err := s.subscriptions.Subscribe(r.Context(), *data.SubscribeForm); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			renderJSON(w, r, http.StatusBadRequest, SubscribeResponse{Error: firstField(verr)})
			return
		}

		resp := errorResponse(err)
		if resp.HTTPStatusCode >= http.StatusInternalServerError {
			s.logger.Error("subscribe failed",
				"request_id", middleware.GetReqID(r.Context()),
				"error", err,
			)
		}
		renderJSON(w, r, resp.HTTPStatusCode, SubscribeResponse{Error: resp.Message})
		return
	}

	renderJSON(w, r, http.StatusCreated, SubscribeResponse{OK: true, Message: subscribed})
}

// firstField picks a stable message out of the error map.
func firstField(verr *domain.ValidationError) string {
	if msg, ok := verr.Fields["email"]; ok {
		return msg
	}
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return verr.Error()
	}
	sort.Strings(keys)
	return verr.Fields[keys[0]]
}
