package httpapi

import (
	"net/http"

	"github.com/go-chi/render"

	"devblog/internal/domain"
	"devblog/internal/service"
)

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	data := &SignupRequest{}
	if err := render.Bind(r, data); err != nil {
		s.badRequest(w, r, err)
		return
	}

	session, err := s.accounts.Signup(r.Context(), *data.SignupForm)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.setSession(w, session.Token)
	renderJSON(w, r, http.StatusCreated, sessionResponse(session))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	data := &LoginRequest{}
	if err := render.Bind(r, data); err != nil {
		s.badRequest(w, r, err)
		return
	}

	session, err := s.accounts.Login(r.Context(), *data.LoginForm)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.setSession(w, session.Token)
	renderJSON(w, r, http.StatusOK, sessionResponse(session))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w)
	renderJSON(w, r, http.StatusOK, MessagesResponse{
		Redirect: "/",
		Messages: []domain.Message{domain.Success("You have been logged out.")},
	})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	view, err := s.accounts.Profile(r.Context(), ViewerFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, view)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	data := &ProfileRequest{}
	if err := render.Bind(r, data); err != nil {
		s.badRequest(w, r, err)
		return
	}

	update, err := s.accounts.UpdateProfile(r.Context(), ViewerFrom(r.Context()), *data.ProfileForm)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if update.Token != "" {
		s.setSession(w, update.Token)
	}
	renderJSON(w, r, http.StatusOK, update)
}

// SessionResponse carries the token in the body as well as the cookie, for
// clients that prefer the Authorization header.
type SessionResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func sessionResponse(session *service.Session) SessionResponse {
	return SessionResponse{User: session.User, Token: session.Token}
}
