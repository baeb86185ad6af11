package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devblog/internal/domain"
	"devblog/internal/service"
)

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	page, err := s.articles.Home(r.Context(), r.URL.Query().Get("q"), queryPage(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, page)
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.articles.Listing(r.Context(), q.Get("q"), q.Get("category"), queryPage(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, page)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.articles.Categories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, categories)
}

func (s *Server) articleDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.articles.Detail(r.Context(), chi.URLParam(r, "slug"), ViewerFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, detail)
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	s.saveArticle(w, r, "")
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	s.saveArticle(w, r, chi.URLParam(r, "slug"))
}

func (s *Server) saveArticle(w http.ResponseWriter, r *http.Request, slug string) {
	form, image, cleanup, err := s.articleForm(w, r)
	defer cleanup()
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	result, err := s.publishing.Save(r.Context(), service.SaveRequest{
		Author: ViewerFrom(r.Context()),
		Slug:   slug,
		Form:   form,
		Image:  image,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	renderJSON(w, r, status, result)
}

func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	result, err := s.publishing.Delete(r.Context(), ViewerFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, MessagesResponse{Redirect: result.Redirect, Messages: result.Messages})
}

// badRequest reports a payload that could not be read. Field errors found
// while reading keep their field map.
func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, ErrInvalidRequest(err))
}
