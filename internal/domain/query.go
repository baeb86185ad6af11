package domain

type Ordering int

const (
	OrderCreatedDesc Ordering = iota
	OrderUpdatedDesc
)

type SearchField string

const (
	SearchTitle       SearchField = "title"
	SearchDescription SearchField = "description"
	SearchBody        SearchField = "body"
)

// ArticleQuery describes one listing request. Zero values
// mean "no filter" except Page and PageSize, which the pipeline normalizes.
type ArticleQuery struct {
	Status       Status
	Query        string
	SearchFields []SearchField
	CategorySlug string
	CategoryID   int64
	AuthorID     int64
	ExcludeID    int64
	OrderBy      Ordering
	Page         int
	PageSize     int
}

type ArticlePage struct {
	Items      []Article `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	HasNext    bool      `json:"has_next"`
	HasPrev    bool      `json:"has_previous"`
}

// Dashboard is an author's own view of their articles.
type Dashboard struct {
	Published      []Article `json:"published"`
	Drafts         []Article `json:"drafts"`
	PublishedCount int       `json:"published_count"`
}
