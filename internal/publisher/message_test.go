package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devblog/internal/domain"
)

func TestArticleMessage(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	description := "Intro"
	article := &domain.Article{
		ID:          7,
		Title:       "Hello World",
		Slug:        "hello-world",
		Description: &description,
		Body:        "body stays private",
		Status:      domain.StatusPublished,
		AuthorID:    1,
	}

	msg := articleMessage(domain.EventPublished, article, now)

	assert.Equal(t, "article.published", msg.Type)
	assert.Equal(t, time.UTC, msg.Timestamp.Location())
	assert.Nil(t, msg.Subscriber)

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "body stays private")
	assert.NotContains(t, string(body), `"subscriber"`)

	var decoded EventMessage
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.NotNil(t, decoded.Article)
	assert.Equal(t, "hello-world", decoded.Article.Slug)
	assert.Equal(t, "Intro", *decoded.Article.Description)
}

func TestSubscriberMessage(t *testing.T) {
	sub := &domain.Subscriber{ID: 3, Email: "reader@example.com"}

	msg := subscriberMessage(sub, time.Now())

	assert.Equal(t, SubscriberCreated, msg.Type)
	assert.Nil(t, msg.Article)
	assert.Equal(t, sub, msg.Subscriber)
}
