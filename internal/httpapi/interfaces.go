package httpapi

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"devblog/internal/domain"
	"devblog/internal/forms"
	"devblog/internal/service"
)

type ArticleReader interface {
	Home(ctx context.Context, query string, page int) (*domain.ArticlePage, error)
	Listing(ctx context.Context, query, categorySlug string, page int) (*domain.ArticlePage, error)
	Detail(ctx context.Context, slug string, viewer domain.Viewer) (*domain.ArticleDetail, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type ArticleWriter interface {
	Save(ctx context.Context, req service.SaveRequest) (*service.SaveResult, error)
	Delete(ctx context.Context, author domain.Viewer, slug string) (*service.SaveResult, error)
}

type Accounts interface {
	Signup(ctx context.Context, form forms.SignupForm) (*service.Session, error)
	Login(ctx context.Context, form forms.LoginForm) (*service.Session, error)
	Profile(ctx context.Context, viewer domain.Viewer) (*service.ProfileView, error)
	UpdateProfile(ctx context.Context, viewer domain.Viewer, form forms.ProfileForm) (*service.ProfileUpdate, error)
}

type Subscriptions interface {
	Subscribe(ctx context.Context, form forms.SubscribeForm) (*domain.Subscriber, error)
}

type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type HealthChecker interface {
	PingContext(ctx context.Context) error
}
