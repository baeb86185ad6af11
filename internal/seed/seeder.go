package seed

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"

	"devblog/internal/domain"
	"devblog/internal/service"
)

type Stats struct {
	Categories int
	Articles   int
}

type Seeder struct {
	categories CategoryStore
	users      UserStore
	publishing Publisher
	logger     *slog.Logger
}

func NewSeeder(categories CategoryStore, users UserStore, publishing Publisher, logger *slog.Logger) *Seeder {
	return &Seeder{
		categories: categories,
		users:      users,
		publishing: publishing,
		logger:     logger.With("component", "seed"),
	}
}

// Run ensures every named category exists, then publishes each *.md file in
// fsys in name order. Documents without an author are filed under
// defaultAuthor.
func (s *Seeder) Run(ctx context.Context, categoryNames []string, fsys fs.FS, defaultAuthor string) (*Stats, error) {
	stats := &Stats{}
	ids := make(map[string]int64, len(categoryNames))

	for _, name := range categoryNames {
		if _, err := s.ensureCategory(ctx, ids, name); err != nil {
			return stats, err
		}
		stats.Categories++
	}

	files, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return stats, fmt.Errorf("list documents: %w", err)
	}
	sort.Strings(files)

	authors := map[string]domain.Viewer{}

	for _, file := range files {
		source, err := fs.ReadFile(fsys, file)
		if err != nil {
			return stats, fmt.Errorf("read %s: %w", file, err)
		}

		doc, err := ParseDocument(source)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", file, err)
		}

		categoryID, err := s.ensureCategory(ctx, ids, doc.Category)
		if err != nil {
			return stats, err
		}

		username := doc.Author
		if username == "" {
			username = defaultAuthor
		}
		author, err := s.author(ctx, authors, username)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", file, err)
		}

		result, err := s.publishing.Save(ctx, service.SaveRequest{
			Author: author,
			Form:   doc.form(categoryID),
		})
		if err != nil {
			return stats, fmt.Errorf("save %s: %w", file, err)
		}
		stats.Articles++

		s.logger.Info("seeded article",
			"file", path.Base(file),
			"slug", result.Article.Slug,
			"status", result.Article.Status,
		)
	}

	return stats, nil
}

func (s *Seeder) ensureCategory(ctx context.Context, ids map[string]int64, name string) (int64, error) {
	if id, ok := ids[name]; ok {
		return id, nil
	}

	category := &domain.Category{Name: name}
	if err := s.categories.Ensure(ctx, category); err != nil {
		return 0, fmt.Errorf("ensure category %q: %w", name, err)
	}
	ids[name] = category.ID
	return category.ID, nil
}

func (s *Seeder) author(ctx context.Context, cache map[string]domain.Viewer, username string) (domain.Viewer, error) {
	if viewer, ok := cache[username]; ok {
		return viewer, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return domain.Anonymous, fmt.Errorf("author %q: %w", username, err)
	}
	viewer := domain.Viewer{UserID: user.ID}
	cache[username] = viewer
	return viewer, nil
}
