package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"devblog/internal/domain"
)

type ProfileStore struct {
	db *sqlx.DB
}

func NewProfileStore(db *sqlx.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// GetOrCreate returns the user's profile, inserting an empty one first if
// none exists yet.
func (s *ProfileStore) GetOrCreate(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, wrap("insert profile", err)
	}

	var profile domain.UserProfile
	query := `
		SELECT id, user_id, bio, github, twitter, website
		FROM user_profiles
		WHERE user_id = $1`

	if err := sqlx.GetContext(ctx, exec, &profile, query, userID); err != nil {
		return nil, wrap("get profile", err)
	}
	return &profile, nil
}

func (s *ProfileStore) Update(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		UPDATE user_profiles SET
			bio = $1,
			github = $2,
			twitter = $3,
			website = $4
		WHERE user_id = $5`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		profile.Bio,
		profile.GitHub,
		profile.Twitter,
		profile.Website,
		profile.UserID,
	)
	if err != nil {
		return wrap("update profile", err)
	}
	return expectRow(res)
}
