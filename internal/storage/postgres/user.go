package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"devblog/internal/domain"
)

const userColumns = `id, username, email, first_name, password_hash, joined_at`

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, email, first_name, password_hash, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.PasswordHash,
		user.JoinedAt,
	).Scan(&user.ID)
	return wrap("insert user", err)
}

func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET
			email = $1,
			first_name = $2,
			password_hash = $3
		WHERE id = $4`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		user.Email,
		user.FirstName,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		return wrap("update user", err)
	}
	return expectRow(res)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &user, query, id); err != nil {
		return nil, wrap("get user", err)
	}
	return &user, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &user, query, username); err != nil {
		return nil, wrap("get user", err)
	}
	return &user, nil
}

// EmailTaken compares case-insensitively and ignores the user excludeID.
func (s *UserStore) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) AND id <> $2)`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &taken, query, email, excludeID); err != nil {
		return false, wrap("check email", err)
	}
	return taken, nil
}

func (s *UserStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &taken, query, username); err != nil {
		return false, wrap("check username", err)
	}
	return taken, nil
}
