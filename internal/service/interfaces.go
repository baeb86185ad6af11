package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"io"

	"devblog/internal/domain"
)

type ArticleStore interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id int64) error
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	GetBySlugAndAuthor(ctx context.Context, slug string, authorID int64) (*domain.Article, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Count(ctx context.Context, q domain.ArticleQuery) (int, error)
	Find(ctx context.Context, q domain.ArticleQuery, limit, offset int) ([]domain.Article, error)
}

type CategoryStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

type ProfileStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.UserProfile, error)
	Update(ctx context.Context, profile *domain.UserProfile) error
}

type SubscriberStore interface {
	Create(ctx context.Context, subscriber *domain.Subscriber) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type BlobStorage interface {
	Put(ctx context.Context, namespace, filename string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

type MarkdownRenderer interface {
	Render(body string) (string, []domain.TOCEntry, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
}

type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

type Publisher interface {
	PublishArticle(ctx context.Context, event domain.ArticleEvent, article *domain.Article) error
	PublishSubscriber(ctx context.Context, subscriber *domain.Subscriber) error
	Close() error
}
