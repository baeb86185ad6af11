package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"devblog/internal/domain"
	"devblog/internal/slug"
)

type CategoryStore struct {
	db *sqlx.DB
}

func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	query := `SELECT id, name, slug FROM categories WHERE id = $1`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &category, query, id); err != nil {
		return nil, wrap("get category", err)
	}
	return &category, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	query := `SELECT id, name, slug FROM categories ORDER BY name, id`

	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &categories, query); err != nil {
		return nil, wrap("list categories", err)
	}
	return categories, nil
}

// Ensure stores category keyed by its slug, renaming an existing row, and
// fills in the ID. An empty slug is derived from the name.
func (s *CategoryStore) Ensure(ctx context.Context, category *domain.Category) error {
	if category.Slug == "" {
		category.Slug = slug.Make(category.Name)
	}

	query := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query, category.Name, category.Slug).Scan(&category.ID)
	return wrap("upsert category", err)
}

// Delete removes a category. Categories still referenced by articles are
// kept and reported as domain.ErrCategoryInUse.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete category: %w", domain.ErrCategoryInUse)
		}
		return wrap("delete category", err)
	}
	return expectRow(res)
}
