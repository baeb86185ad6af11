//go:build integration

package postgres

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"devblog/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB

	author   *domain.User
	category *domain.Category
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_init.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM articles")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM categories")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM user_profiles")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM users")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM subscribers")

	s.author = s.createUser("author")
	s.category = &domain.Category{Name: "Go"}
	s.Require().NoError(NewCategoryStore(s.db).Ensure(s.ctx, s.category))
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func ptr[T any](v T) *T {
	return &v
}

func (s *PostgresIntegrationSuite) createUser(username string) *domain.User {
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		PasswordHash: "hash",
		JoinedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(NewUserStore(s.db).Create(s.ctx, user))
	return user
}

func (s *PostgresIntegrationSuite) createArticle(title, slug string, status domain.Status, created time.Time) *domain.Article {
	article := &domain.Article{
		Title:       title,
		Slug:        slug,
		Description: ptr("About " + title),
		Body:        "Body of " + title,
		Status:      status,
		CategoryID:  s.category.ID,
		AuthorID:    s.author.ID,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	s.Require().NoError(NewArticleStore(s.db).Create(s.ctx, article))
	return article
}

func (s *PostgresIntegrationSuite) TestArticleStore_CreateAndGet() {
	store := NewArticleStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	created := s.createArticle("Hello World", "hello-world", domain.StatusPublished, now)
	s.Greater(created.ID, int64(0))

	got, err := store.GetBySlug(s.ctx, "hello-world")
	s.Require().NoError(err)
	s.Equal("Hello World", got.Title)
	s.Equal("About Hello World", *got.Description)
	s.Equal("Go", got.CategoryName)
	s.Equal("go", got.CategorySlug)
	s.Equal("author", got.AuthorUsername)
	s.WithinDuration(now, got.CreatedAt, time.Second)

	_, err = store.GetBySlug(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestArticleStore_DuplicateSlugIsConflict() {
	now := time.Now().UTC()
	s.createArticle("Hello World", "hello-world", domain.StatusDraft, now)

	err := NewArticleStore(s.db).Create(s.ctx, &domain.Article{
		Title:      "Hello World",
		Slug:       "hello-world",
		Body:       "again",
		Status:     domain.StatusDraft,
		CategoryID: s.category.ID,
		AuthorID:   s.author.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *PostgresIntegrationSuite) TestArticleStore_MissingAuthorIsUnauthorized() {
	now := time.Now().UTC()

	err := NewArticleStore(s.db).Create(s.ctx, &domain.Article{
		Title:      "Orphan",
		Slug:       "orphan",
		Body:       "nobody wrote this",
		Status:     domain.StatusDraft,
		CategoryID: s.category.ID,
		AuthorID:   s.author.ID + 1000,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.NotErrorIs(err, domain.ErrCategoryInUse)
}

func (s *PostgresIntegrationSuite) TestArticleStore_ScopedByAuthor() {
	store := NewArticleStore(s.db)
	article := s.createArticle("Mine", "mine", domain.StatusDraft, time.Now().UTC())
	other := s.createUser("other")

	_, err := store.GetBySlugAndAuthor(s.ctx, "mine", other.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	got, err := store.GetBySlugAndAuthor(s.ctx, "mine", s.author.ID)
	s.Require().NoError(err)
	s.Equal(article.ID, got.ID)

	hijack := *got
	hijack.AuthorID = other.ID
	hijack.Title = "Stolen"
	s.ErrorIs(store.Update(s.ctx, &hijack), domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestArticleStore_UpdateAndDelete() {
	store := NewArticleStore(s.db)
	article := s.createArticle("Draft", "draft", domain.StatusDraft, time.Now().UTC())

	article.Status = domain.StatusPublished
	article.Description = nil
	article.UpdatedAt = time.Now().UTC()
	s.Require().NoError(store.Update(s.ctx, article))

	got, err := store.GetBySlug(s.ctx, "draft")
	s.Require().NoError(err)
	s.Equal(domain.StatusPublished, got.Status)
	s.Nil(got.Description)

	s.Require().NoError(store.Delete(s.ctx, article.ID))
	s.ErrorIs(store.Delete(s.ctx, article.ID), domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestArticleStore_SlugExists() {
	store := NewArticleStore(s.db)
	article := s.createArticle("Hello World", "hello-world", domain.StatusDraft, time.Now().UTC())

	exists, err := store.SlugExists(s.ctx, "hello-world", 0)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = store.SlugExists(s.ctx, "hello-world", article.ID)
	s.Require().NoError(err)
	s.False(exists)

	exists, err = store.SlugExists(s.ctx, "hello-world-1", 0)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *PostgresIntegrationSuite) TestArticleStore_FindPaginatesAndOrders() {
	store := NewArticleStore(s.db)
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i := 0; i < 10; i++ {
		title := fmt.Sprintf("Article %02d", i)
		s.createArticle(title, fmt.Sprintf("article-%02d", i), domain.StatusPublished, base.Add(time.Duration(i)*time.Minute))
	}
	s.createArticle("Hidden", "hidden", domain.StatusDraft, base.Add(time.Hour))

	q := domain.ArticleQuery{Status: domain.StatusPublished}

	total, err := store.Count(s.ctx, q)
	s.Require().NoError(err)
	s.Equal(10, total)

	first, err := store.Find(s.ctx, q, 9, 0)
	s.Require().NoError(err)
	s.Len(first, 9)
	s.Equal("article-09", first[0].Slug)

	second, err := store.Find(s.ctx, q, 9, 9)
	s.Require().NoError(err)
	s.Len(second, 1)
	s.Equal("article-00", second[0].Slug)

	all, err := store.Find(s.ctx, domain.ArticleQuery{AuthorID: s.author.ID}, 0, 0)
	s.Require().NoError(err)
	s.Len(all, 11)
}

func (s *PostgresIntegrationSuite) TestArticleStore_SearchAndCategoryFilter() {
	store := NewArticleStore(s.db)
	now := time.Now().UTC()

	s.createArticle("Concurrency in Go", "concurrency-in-go", domain.StatusPublished, now)
	s.createArticle("Cooking", "cooking", domain.StatusPublished, now)

	other := &domain.Category{Name: "Life"}
	s.Require().NoError(NewCategoryStore(s.db).Ensure(s.ctx, other))
	s.Require().NoError(NewArticleStore(s.db).Create(s.ctx, &domain.Article{
		Title: "Goroutines for breakfast", Slug: "goroutines", Body: "x", Status: domain.StatusPublished,
		CategoryID: other.ID, AuthorID: s.author.ID, CreatedAt: now, UpdatedAt: now,
	}))

	found, err := store.Find(s.ctx, domain.ArticleQuery{
		Status:       domain.StatusPublished,
		Query:        "GO",
		SearchFields: []domain.SearchField{domain.SearchTitle},
		CategorySlug: "go",
	}, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("concurrency-in-go", found[0].Slug)

	count, err := store.Count(s.ctx, domain.ArticleQuery{
		Query:        "body of cooking",
		SearchFields: []domain.SearchField{domain.SearchBody},
	})
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestCategoryStore_ListAndDelete() {
	store := NewCategoryStore(s.db)
	s.Require().NoError(store.Ensure(s.ctx, &domain.Category{Name: "Backend"}))

	categories, err := store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 2)
	s.Equal("Backend", categories[0].Name)
	s.Equal("backend", categories[0].Slug)

	s.createArticle("Pinned", "pinned", domain.StatusDraft, time.Now().UTC())
	s.ErrorIs(store.Delete(s.ctx, s.category.ID), domain.ErrCategoryInUse)
	s.NoError(store.Delete(s.ctx, categories[0].ID))

	_, err = store.GetByID(s.ctx, categories[0].ID)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestUserStore() {
	store := NewUserStore(s.db)

	taken, err := store.UsernameTaken(s.ctx, "author")
	s.Require().NoError(err)
	s.True(taken)

	taken, err = store.EmailTaken(s.ctx, "AUTHOR@example.com", 0)
	s.Require().NoError(err)
	s.True(taken)

	taken, err = store.EmailTaken(s.ctx, "author@example.com", s.author.ID)
	s.Require().NoError(err)
	s.False(taken)

	user, err := store.GetByUsername(s.ctx, "author")
	s.Require().NoError(err)
	user.FirstName = "Renamed"
	s.Require().NoError(store.Update(s.ctx, user))

	got, err := store.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", got.FirstName)

	err = store.Create(s.ctx, &domain.User{Username: "author", PasswordHash: "x", JoinedAt: time.Now()})
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *PostgresIntegrationSuite) TestProfileStore_GetOrCreate() {
	store := NewProfileStore(s.db)

	profile, err := store.GetOrCreate(s.ctx, s.author.ID)
	s.Require().NoError(err)
	s.Empty(profile.Bio)

	profile.Bio = "Gopher"
	profile.Website = "https://example.com"
	s.Require().NoError(store.Update(s.ctx, profile))

	again, err := store.GetOrCreate(s.ctx, s.author.ID)
	s.Require().NoError(err)
	s.Equal(profile.ID, again.ID)
	s.Equal("Gopher", again.Bio)
}

func (s *PostgresIntegrationSuite) TestSubscriberStore_Duplicate() {
	store := NewSubscriberStore(s.db)

	s.Require().NoError(store.Create(s.ctx, &domain.Subscriber{Email: "reader@example.com", SubscribedAt: time.Now()}))
	err := store.Create(s.ctx, &domain.Subscriber{Email: "reader@example.com", SubscribedAt: time.Now()})
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	users := NewUserStore(s.db)
	profiles := NewProfileStore(s.db)

	var user *domain.User
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		user = &domain.User{Username: "tx", PasswordHash: "x", JoinedAt: time.Now()}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		_, err := profiles.GetOrCreate(ctx, user.ID)
		return err
	})
	s.Require().NoError(err)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM user_profiles WHERE user_id = $1", user.ID)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	users := NewUserStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := users.Create(ctx, &domain.User{Username: "rolled-back", PasswordHash: "x", JoinedAt: time.Now()}); err != nil {
			return err
		}
		return context.Canceled
	})
	s.ErrorIs(err, context.Canceled)

	taken, err := users.UsernameTaken(s.ctx, "rolled-back")
	s.NoError(err)
	s.False(taken)
}
