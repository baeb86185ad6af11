// Package httpapi exposes the blog over a JSON HTTP API.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Options struct {
	CookieName     string
	CookieSecure   bool
	TokenTTL       time.Duration
	MaxUploadBytes int64
	MediaURL       string
	MediaRoot      string
}

type Server struct {
	articles      ArticleReader
	publishing    ArticleWriter
	accounts      Accounts
	subscriptions Subscriptions
	tokens        TokenVerifier
	health        HealthChecker
	logger        *slog.Logger
	opts          Options
}

func NewServer(
	articles ArticleReader,
	publishing ArticleWriter,
	accounts Accounts,
	subscriptions Subscriptions,
	tokens TokenVerifier,
	health HealthChecker,
	logger *slog.Logger,
	opts Options,
) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}

	return &Server{
		articles:      articles,
		publishing:    publishing,
		accounts:      accounts,
		subscriptions: subscriptions,
		tokens:        tokens,
		health:        health,
		logger:        logger.With("component", "http"),
		opts:          opts,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.identify)

	if s.opts.MediaURL != "" && s.opts.MediaRoot != "" {
		FileServer(r, s.opts.MediaURL, http.Dir(s.opts.MediaRoot))
	}

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/healthz", s.healthz)

		r.Get("/", s.home)
		r.Get("/categories/", s.listCategories)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", s.listArticles)
			r.With(s.requireUser).Post("/", s.createArticle)
		})

		r.Route("/article/{slug}", func(r chi.Router) {
			r.Get("/", s.articleDetail)

			r.Group(func(r chi.Router) {
				r.Use(s.requireUser)
				r.Put("/", s.updateArticle)
				r.Delete("/", s.deleteArticle)
			})
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/signup/", s.signup)
			r.Post("/login/", s.login)
			r.Post("/logout/", s.logout)

			r.Group(func(r chi.Router) {
				r.Use(s.requireUser)
				r.Get("/profile/", s.profile)
				r.Post("/profile/", s.updateProfile)
			})
		})

		r.Post("/subscribe/", s.subscribe)
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.PingContext(r.Context()); err != nil {
			s.logger.Error("health check failed", "error", err)
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"status": "unavailable"})
			return
		}
	}
	render.JSON(w, r, map[string]string{"status": "ok"})
}
