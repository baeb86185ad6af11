package domain

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is one of the two article states.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type Article struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	Body        string    `db:"body" json:"body"`
	Status      Status    `db:"status" json:"status"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	AuthorID    int64     `db:"author_id" json:"author_id"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Joined columns, read-only.
	CategoryName   string `db:"category_name" json:"category_name,omitempty"`
	CategorySlug   string `db:"category_slug" json:"category_slug,omitempty"`
	AuthorUsername string `db:"author_username" json:"author_username,omitempty"`

	// ReadingMinutes is computed on the way out of the query pipeline.
	ReadingMinutes int `db:"-" json:"reading_minutes"`
}

func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

func (a *Article) IsDraft() bool {
	return a.Status == StatusDraft
}

type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

// ArticleDetail is a single article prepared for display.
type ArticleDetail struct {
	Article  Article    `json:"article"`
	HTML     string     `json:"html"`
	TOC      []TOCEntry `json:"toc"`
	Related  []Article  `json:"related"`
	IsAuthor bool       `json:"is_author"`
}

type TOCEntry struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Title string `json:"title"`
}
