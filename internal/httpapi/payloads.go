package httpapi

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"devblog/internal/domain"
	"devblog/internal/forms"
)

var errEmptyBody = errors.New("empty request body")

// ArticleRequest is the JSON body of article create and update.
type ArticleRequest struct {
	*forms.ArticleForm
}

func (a *ArticleRequest) Bind(r *http.Request) error {
	if a.ArticleForm == nil {
		return errEmptyBody
	}
	return nil
}

type SignupRequest struct {
	*forms.SignupForm
}

func (s *SignupRequest) Bind(r *http.Request) error {
	if s.SignupForm == nil {
		return errEmptyBody
	}
	return nil
}

type LoginRequest struct {
	*forms.LoginForm
}

func (l *LoginRequest) Bind(r *http.Request) error {
	if l.LoginForm == nil {
		return errEmptyBody
	}
	return nil
}

type ProfileRequest struct {
	*forms.ProfileForm
}

func (p *ProfileRequest) Bind(r *http.Request) error {
	if p.ProfileForm == nil {
		return errEmptyBody
	}
	return nil
}

type SubscribeRequest struct {
	*forms.SubscribeForm
}

func (s *SubscribeRequest) Bind(r *http.Request) error {
	if s.SubscribeForm == nil {
		return errEmptyBody
	}
	return nil
}

// SubscribeResponse is the answer of the newsletter form.
type SubscribeResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type MessagesResponse struct {
	Redirect string           `json:"redirect,omitempty"`
	Messages []domain.Message `json:"messages"`
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// articleForm reads the article fields from either a JSON body or a
// multipart form. The returned cleanup releases multipart temp files.
func (s *Server) articleForm(w http.ResponseWriter, r *http.Request) (forms.ArticleForm, *domain.Upload, func(), error) {
	noop := func() {}

	if !isMultipart(r) {
		data := &ArticleRequest{}
		if err := render.Bind(r, data); err != nil {
			return forms.ArticleForm{}, nil, noop, err
		}
		return *data.ArticleForm, nil, noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		return forms.ArticleForm{}, nil, noop, fmt.Errorf("parse multipart form: %w", err)
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	form := forms.ArticleForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Body:        r.FormValue("body"),
		Status:      domain.Status(strings.TrimSpace(r.FormValue("status"))),
	}
	if raw := strings.TrimSpace(r.FormValue("category")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			cleanup()
			return forms.ArticleForm{}, nil, noop, domain.NewValidationError("category", "Select a category.")
		}
		form.CategoryID = id
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return forms.ArticleForm{}, nil, noop, fmt.Errorf("read image: %w", err)
	}

	prev := cleanup
	cleanup = func() {
		file.Close()
		prev()
	}

	return form, &domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, cleanup, nil
}

func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return page
}
