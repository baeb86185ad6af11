package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"devblog/internal/config"
	"devblog/internal/domain"
)

// ArticleService is the read side: listings, detail pages and the author's
// dashboard.
type ArticleService struct {
	articles     ArticleStore
	categories   CategoryStore
	renderer     MarkdownRenderer
	logger       *slog.Logger
	config       config.BlogConfig
	searchFields []domain.SearchField
}

func NewArticleService(
	articles ArticleStore,
	categories CategoryStore,
	renderer MarkdownRenderer,
	logger *slog.Logger,
	cfg config.BlogConfig,
) *ArticleService {
	fields := make([]domain.SearchField, 0, len(cfg.SearchFields))
	for _, f := range cfg.SearchFields {
		fields = append(fields, domain.SearchField(f))
	}
	if len(fields) == 0 {
		fields = []domain.SearchField{domain.SearchTitle}
	}

	return &ArticleService{
		articles:     articles,
		categories:   categories,
		renderer:     renderer,
		logger:       logger.With("component", "articles"),
		config:       cfg,
		searchFields: fields,
	}
}

// Home is the front-page feed of published articles.
func (s *ArticleService) Home(ctx context.Context, query string, page int) (*domain.ArticlePage, error) {
	return s.List(ctx, domain.ArticleQuery{
		Status:   domain.StatusPublished,
		Query:    query,
		Page:     page,
		PageSize: s.config.HomePageSize,
	})
}

// Listing is the full article index with optional category filter.
func (s *ArticleService) Listing(ctx context.Context, query, categorySlug string, page int) (*domain.ArticlePage, error) {
	return s.List(ctx, domain.ArticleQuery{
		Status:       domain.StatusPublished,
		Query:        query,
		CategorySlug: categorySlug,
		Page:         page,
		PageSize:     s.config.ListPageSize,
	})
}

// List runs one query and returns the requested page. Page
// numbers outside the valid range are clamped, so the result always holds
// the nearest real page.
func (s *ArticleService) List(ctx context.Context, q domain.ArticleQuery) (*domain.ArticlePage, error) {
	q.Query = strings.TrimSpace(q.Query)
	q.CategorySlug = strings.TrimSpace(q.CategorySlug)
	if q.Query != "" && len(q.SearchFields) == 0 {
		q.SearchFields = s.searchFields
	}
	if q.PageSize <= 0 {
		q.PageSize = s.config.ListPageSize
	}

	total, err := s.articles.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	totalPages := (total + q.PageSize - 1) / q.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	items := []domain.Article{}
	if total > 0 {
		items, err = s.articles.Find(ctx, q, q.PageSize, (page-1)*q.PageSize)
		if err != nil {
			return nil, fmt.Errorf("find articles: %w", err)
		}
	}

	s.logger.Debug("listed articles",
		"query", q.Query,
		"category", q.CategorySlug,
		"page", page,
		"total", total,
	)

	return &domain.ArticlePage{
		Items:      withReadingTime(items),
		Total:      total,
		Page:       page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// Detail loads the article behind slug as seen by viewer. Drafts of other
// authors are reported as domain.ErrNotFound.
func (s *ArticleService) Detail(ctx context.Context, slug string, viewer domain.Viewer) (*domain.ArticleDetail, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !IsVisible(article, viewer) {
		return nil, domain.ErrNotFound
	}

	html, toc, err := s.renderer.Render(article.Body)
	if err != nil {
		return nil, err
	}

	related, err := s.Related(ctx, article)
	if err != nil {
		return nil, err
	}

	article.ReadingMinutes = EstimateMinutes(article.Body)

	return &domain.ArticleDetail{
		Article:  *article,
		HTML:     html,
		TOC:      toc,
		Related:  related,
		IsAuthor: viewer.Owns(article),
	}, nil
}

// Related returns the newest other published articles sharing a category.
func (s *ArticleService) Related(ctx context.Context, article *domain.Article) ([]domain.Article, error) {
	if article.CategoryID == 0 || s.config.RelatedLimit <= 0 {
		return []domain.Article{}, nil
	}

	related, err := s.articles.Find(ctx, domain.ArticleQuery{
		Status:     domain.StatusPublished,
		CategoryID: article.CategoryID,
		ExcludeID:  article.ID,
		OrderBy:    domain.OrderCreatedDesc,
	}, s.config.RelatedLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("find related: %w", err)
	}
	return withReadingTime(related), nil
}

// Dashboard lists the viewer's own articles: published newest first, drafts
// most recently edited first.
func (s *ArticleService) Dashboard(ctx context.Context, viewer domain.Viewer) (*domain.Dashboard, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}

	published, err := s.articles.Find(ctx, domain.ArticleQuery{
		Status:   domain.StatusPublished,
		AuthorID: viewer.UserID,
		OrderBy:  domain.OrderCreatedDesc,
	}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("find published: %w", err)
	}

	drafts, err := s.articles.Find(ctx, domain.ArticleQuery{
		Status:   domain.StatusDraft,
		AuthorID: viewer.UserID,
		OrderBy:  domain.OrderUpdatedDesc,
	}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("find drafts: %w", err)
	}

	return &domain.Dashboard{
		Published:      withReadingTime(published),
		Drafts:         withReadingTime(drafts),
		PublishedCount: len(published),
	}, nil
}

func (s *ArticleService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
