package domain

// ArticleEvent names a lifecycle change announced after commit.
type ArticleEvent string

const (
	EventPublished   ArticleEvent = "published"
	EventUnpublished ArticleEvent = "unpublished"
	EventUpdated     ArticleEvent = "updated"
	EventDeleted     ArticleEvent = "deleted"
)
