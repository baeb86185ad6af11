package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"devblog/internal/domain"
)

type SubscriberStore struct {
	db *sqlx.DB
}

func NewSubscriberStore(db *sqlx.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

// Create inserts a subscriber; a repeated email is domain.ErrConflict.
func (s *SubscriberStore) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	query := `
		INSERT INTO subscribers (email, subscribed_at)
		VALUES ($1, $2)
		RETURNING id`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		subscriber.Email,
		subscriber.SubscribedAt,
	).Scan(&subscriber.ID)
	return wrap("insert subscriber", err)
}
