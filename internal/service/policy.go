package service

import (
	"strings"

	"devblog/internal/domain"
)

const wordsPerMinute = 200

// IsVisible reports whether viewer may see article. Drafts are visible to
// their author only; callers report a hidden draft as not found.
func IsVisible(article *domain.Article, viewer domain.Viewer) bool {
	if article == nil {
		return false
	}
	if article.IsPublished() {
		return true
	}
	return viewer.Owns(article)
}

// EstimateMinutes returns the reading time of body, at least one minute.
func EstimateMinutes(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

func withReadingTime(articles []domain.Article) []domain.Article {
	if articles == nil {
		return []domain.Article{}
	}
	for i := range articles {
		articles[i].ReadingMinutes = EstimateMinutes(articles[i].Body)
	}
	return articles
}
