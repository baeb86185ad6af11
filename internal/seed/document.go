// Package seed loads categories and Markdown articles into an empty blog.
package seed

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"devblog/internal/domain"
	"devblog/internal/forms"
)

// Document is one Markdown file with its front matter.
type Document struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Status      string `yaml:"status"`
	Author      string `yaml:"author"`

	Body string `yaml:"-"`
}

func ParseDocument(source []byte) (*Document, error) {
	var doc Document
	body, err := frontmatter.Parse(bytes.NewReader(source), &doc)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	doc.Body = string(bytes.TrimSpace(body))

	if doc.Title == "" {
		return nil, fmt.Errorf("front matter: title is required")
	}
	if doc.Category == "" {
		return nil, fmt.Errorf("front matter: category is required")
	}
	return &doc, nil
}

func (d *Document) status() domain.Status {
	if d.Status == "" {
		return domain.StatusPublished
	}
	return domain.Status(d.Status)
}

func (d *Document) form(categoryID int64) forms.ArticleForm {
	return forms.ArticleForm{
		Title:       d.Title,
		Description: d.Description,
		CategoryID:  categoryID,
		Body:        d.Body,
		Status:      d.status(),
	}
}
