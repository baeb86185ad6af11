package seed

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"devblog/internal/domain"
	"devblog/internal/service"
)

type CategoryStore interface {
	Ensure(ctx context.Context, category *domain.Category) error
}

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type Publisher interface {
	Save(ctx context.Context, req service.SaveRequest) (*service.SaveResult, error)
}
