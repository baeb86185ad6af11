package postgres

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"devblog/internal/domain"
)

const articleColumns = `
	a.id, a.title, a.slug, a.description, a.body, a.status,
	a.category_id, a.author_id, a.image_url, a.created_at, a.updated_at,
	c.name AS category_name, c.slug AS category_slug, u.username AS author_username`

const articleJoins = `
	FROM articles a
	INNER JOIN categories c ON c.id = a.category_id
	INNER JOIN users u ON u.id = a.author_id`

var searchColumns = map[domain.SearchField]string{
	domain.SearchTitle:       "a.title",
	domain.SearchDescription: "COALESCE(a.description, '')",
	domain.SearchBody:        "a.body",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func (s *ArticleStore) Create(ctx context.Context, article *domain.Article) error {
	exec := GetExecutor(ctx, s.db)
	query := `
		INSERT INTO articles (
			title, slug, description, body, status,
			category_id, author_id, image_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING id`

	err := exec.QueryRowxContext(ctx, query,
		article.Title,
		article.Slug,
		article.Description,
		article.Body,
		article.Status,
		article.CategoryID,
		article.AuthorID,
		article.ImageURL,
		article.CreatedAt,
		article.UpdatedAt,
	).Scan(&article.ID)
	return wrap("insert article", err)
}

// Update rewrites the mutable columns of an article owned by its author.
func (s *ArticleStore) Update(ctx context.Context, article *domain.Article) error {
	exec := GetExecutor(ctx, s.db)
	query := `
		UPDATE articles SET
			title = $1,
			slug = $2,
			description = $3,
			body = $4,
			status = $5,
			category_id = $6,
			image_url = $7,
			updated_at = $8
		WHERE id = $9 AND author_id = $10`

	res, err := exec.ExecContext(ctx, query,
		article.Title,
		article.Slug,
		article.Description,
		article.Body,
		article.Status,
		article.CategoryID,
		article.ImageURL,
		article.UpdatedAt,
		article.ID,
		article.AuthorID,
	)
	if err != nil {
		return wrap("update article", err)
	}
	return expectRow(res)
}

func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	exec := GetExecutor(ctx, s.db)

	res, err := exec.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return wrap("delete article", err)
	}
	return expectRow(res)
}

func (s *ArticleStore) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var article domain.Article
	query := "SELECT" + articleColumns + articleJoins + " WHERE a.slug = $1"

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &article, query, slug); err != nil {
		return nil, wrap("get article", err)
	}
	return &article, nil
}

func (s *ArticleStore) GetBySlugAndAuthor(ctx context.Context, slug string, authorID int64) (*domain.Article, error) {
	var article domain.Article
	query := "SELECT" + articleColumns + articleJoins + " WHERE a.slug = $1 AND a.author_id = $2"

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &article, query, slug, authorID); err != nil {
		return nil, wrap("get article", err)
	}
	return &article, nil
}

// SlugExists reports whether slug is taken by any article other than
// excludeID.
func (s *ArticleStore) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &exists, query, slug, excludeID); err != nil {
		return false, wrap("check slug", err)
	}
	return exists, nil
}

func (s *ArticleStore) Count(ctx context.Context, q domain.ArticleQuery) (int, error) {
	exec := GetExecutor(ctx, s.db)
	where, args := buildFilter(q)

	var total int
	query := exec.Rebind("SELECT COUNT(*)" + articleJoins + where)
	if err := sqlx.GetContext(ctx, exec, &total, query, args...); err != nil {
		return 0, wrap("count articles", err)
	}
	return total, nil
}

// Find returns one window of the articles matching q. A limit of zero
// returns every match.
func (s *ArticleStore) Find(ctx context.Context, q domain.ArticleQuery, limit, offset int) ([]domain.Article, error) {
	exec := GetExecutor(ctx, s.db)
	where, args := buildFilter(q)

	var sb strings.Builder
	sb.WriteString("SELECT")
	sb.WriteString(articleColumns)
	sb.WriteString(articleJoins)
	sb.WriteString(where)
	sb.WriteString(orderClause(q.OrderBy))
	if limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, offset)
	}

	articles := []domain.Article{}
	if err := sqlx.SelectContext(ctx, exec, &articles, exec.Rebind(sb.String()), args...); err != nil {
		return nil, wrap("find articles", err)
	}
	return articles, nil
}

func buildFilter(q domain.ArticleQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Status != "" {
		conds = append(conds, "a.status = ?")
		args = append(args, q.Status)
	}
	if q.CategorySlug != "" {
		conds = append(conds, "c.slug = ?")
		args = append(args, q.CategorySlug)
	}
	if q.CategoryID != 0 {
		conds = append(conds, "a.category_id = ?")
		args = append(args, q.CategoryID)
	}
	if q.AuthorID != 0 {
		conds = append(conds, "a.author_id = ?")
		args = append(args, q.AuthorID)
	}
	if q.ExcludeID != 0 {
		conds = append(conds, "a.id <> ?")
		args = append(args, q.ExcludeID)
	}
	if q.Query != "" {
		pattern := "%" + likeEscaper.Replace(q.Query) + "%"
		var ors []string
		for _, field := range q.SearchFields {
			column, ok := searchColumns[field]
			if !ok {
				continue
			}
			ors = append(ors, column+" ILIKE ?")
			args = append(args, pattern)
		}
		if len(ors) > 0 {
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(order domain.Ordering) string {
	if order == domain.OrderUpdatedDesc {
		return " ORDER BY a.updated_at DESC, a.id DESC"
	}
	return " ORDER BY a.created_at DESC, a.id DESC"
}
