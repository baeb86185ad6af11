package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devblog/internal/domain"
	"devblog/internal/forms"
	"devblog/internal/slug"
)

const (
	imageNamespace = "articles"
	ProfilePath    = "/accounts/profile/"
)

// ArticlePath is the public detail location of an article.
func ArticlePath(slug string) string {
	return "/article/" + slug + "/"
}

type SaveRequest struct {
	Author domain.Viewer
	// Slug selects the article to update; empty creates a new one.
	Slug  string
	Form  forms.ArticleForm
	Image *domain.Upload
}

// SaveResult tells the caller what happened and where to go next.
type SaveResult struct {
	Article  *domain.Article  `json:"article,omitempty"`
	Created  bool             `json:"created"`
	Redirect string           `json:"redirect"`
	Messages []domain.Message `json:"messages"`
}

// PublishingService is the write side of articles. Every mutation is scoped
// to the requesting author.
type PublishingService struct {
	articles   ArticleStore
	categories CategoryStore
	txManager  TransactionManager
	blobs      BlobStorage
	publisher  Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewPublishingService(
	articles ArticleStore,
	categories CategoryStore,
	txManager TransactionManager,
	blobs BlobStorage,
	publisher Publisher,
	logger *slog.Logger,
) *PublishingService {
	return &PublishingService{
		articles:   articles,
		categories: categories,
		txManager:  txManager,
		blobs:      blobs,
		publisher:  publisher,
		logger:     logger.With("component", "publishing"),
		now:        time.Now,
	}
}

// Editable returns the author's own article for editing. Another author's
// article is domain.ErrNotFound.
func (s *PublishingService) Editable(ctx context.Context, author domain.Viewer, articleSlug string) (*domain.Article, error) {
	if author.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	return s.articles.GetBySlugAndAuthor(ctx, articleSlug, author.UserID)
}

// Save creates or updates an article. The slug is regenerated only when the
// title changes; the status follows the request and otherwise stays as it
// was (Draft for new articles).
func (s *PublishingService) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	if req.Author.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := req.Form.Validate(); err != nil {
		return nil, err
	}

	var existing *domain.Article
	if req.Slug != "" {
		found, err := s.articles.GetBySlugAndAuthor(ctx, req.Slug, req.Author.UserID)
		if err != nil {
			return nil, err
		}
		existing = found
	}

	if _, err := s.categories.GetByID(ctx, req.Form.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("category", "Select a valid category.")
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	article := s.apply(existing, req)
	titleChanged := existing == nil || existing.Title != article.Title

	var uploaded string
	if req.Image != nil {
		if !strings.HasPrefix(req.Image.ContentType, "image/") {
			return nil, domain.NewValidationError("image", "Upload an image file.")
		}
		url, err := s.blobs.Put(ctx, imageNamespace, req.Image.Filename, req.Image.Body)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		uploaded = url
		article.ImageURL = &url
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if titleChanged {
			assigned, err := slug.Unique(txCtx, article.Title, func(ctx context.Context, candidate string) (bool, error) {
				return s.articles.SlugExists(ctx, candidate, article.ID)
			})
			if err != nil {
				return err
			}
			article.Slug = assigned
		}

		if existing == nil {
			return s.articles.Create(txCtx, article)
		}
		return s.articles.Update(txCtx, article)
	})
	if err != nil {
		if uploaded != "" {
			s.discardImage(ctx, uploaded)
		}
		return nil, fmt.Errorf("save article: %w", err)
	}

	if uploaded != "" && existing != nil && existing.ImageURL != nil {
		s.discardImage(ctx, *existing.ImageURL)
	}

	s.announce(ctx, existing, article)

	s.logger.Info("article saved",
		"article_id", article.ID,
		"slug", article.Slug,
		"status", article.Status,
		"created", existing == nil,
	)

	return &SaveResult{
		Article:  article,
		Created:  existing == nil,
		Redirect: redirectFor(article),
		Messages: []domain.Message{domain.Success(saveMessage(existing, article))},
	}, nil
}

// Delete removes the author's article for good.
func (s *PublishingService) Delete(ctx context.Context, author domain.Viewer, articleSlug string) (*SaveResult, error) {
	article, err := s.Editable(ctx, author, articleSlug)
	if err != nil {
		return nil, err
	}

	if err := s.articles.Delete(ctx, article.ID); err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}

	if article.ImageURL != nil {
		s.discardImage(ctx, *article.ImageURL)
	}
	if article.IsPublished() {
		s.publish(ctx, domain.EventDeleted, article)
	}

	s.logger.Info("article deleted", "article_id", article.ID, "slug", article.Slug)

	return &SaveResult{
		Redirect: ProfilePath,
		Messages: []domain.Message{domain.Success("Article deleted.")},
	}, nil
}

func (s *PublishingService) apply(existing *domain.Article, req SaveRequest) *domain.Article {
	now := s.now().UTC()

	var article domain.Article
	if existing != nil {
		article = *existing
	} else {
		article = domain.Article{
			AuthorID:  req.Author.UserID,
			Status:    domain.StatusDraft,
			CreatedAt: now,
		}
	}

	article.Title = req.Form.Title
	article.Body = req.Form.Body
	article.CategoryID = req.Form.CategoryID
	article.Description = nil
	if req.Form.Description != "" {
		description := req.Form.Description
		article.Description = &description
	}
	if req.Form.Status != "" {
		article.Status = req.Form.Status
	}
	article.UpdatedAt = now

	return &article
}

func (s *PublishingService) announce(ctx context.Context, before, after *domain.Article) {
	wasPublished := before != nil && before.IsPublished()

	switch {
	case after.IsPublished() && !wasPublished:
		s.publish(ctx, domain.EventPublished, after)
	case after.IsPublished():
		s.publish(ctx, domain.EventUpdated, after)
	case wasPublished:
		s.publish(ctx, domain.EventUnpublished, after)
	}
}

func (s *PublishingService) publish(ctx context.Context, event domain.ArticleEvent, article *domain.Article) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishArticle(ctx, event, article); err != nil {
		s.logger.Warn("publish article event failed",
			"event", event,
			"article_id", article.ID,
			"error", err,
		)
	}
}

func (s *PublishingService) discardImage(ctx context.Context, url string) {
	if err := s.blobs.Delete(ctx, url); err != nil {
		s.logger.Warn("discard image failed", "url", url, "error", err)
	}
}

func redirectFor(article *domain.Article) string {
	if article.IsPublished() {
		return ArticlePath(article.Slug)
	}
	return ProfilePath
}

func saveMessage(before, after *domain.Article) string {
	switch {
	case after.IsDraft():
		return "Draft saved."
	case before != nil && before.IsPublished():
		return "Article updated."
	default:
		return "Article published."
	}
}
