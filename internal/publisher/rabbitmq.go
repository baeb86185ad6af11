package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"devblog/internal/domain"
)

const SubscriberCreated = "subscriber.created"

type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger

	// mu serializes publishes on channel.
	mu sync.Mutex
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		cfg.RoutingKey,
		cfg.Exchange,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

// EventMessage is the JSON body of every published event. Exactly one of
// Article and Subscriber is set, matching Type.
type EventMessage struct {
	Type       string             `json:"type"`
	Article    *ArticlePayload    `json:"article,omitempty"`
	Subscriber *domain.Subscriber `json:"subscriber,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// ArticlePayload is the public face of an article for downstream
// consumers; the body stays in the database.
type ArticlePayload struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description *string       `json:"description,omitempty"`
	Status      domain.Status `json:"status"`
	CategoryID  int64         `json:"category_id"`
	AuthorID    int64         `json:"author_id"`
	ImageURL    *string       `json:"image_url,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func articleMessage(event domain.ArticleEvent, article *domain.Article, now time.Time) EventMessage {
	return EventMessage{
		Type: "article." + string(event),
		Article: &ArticlePayload{
			ID:          article.ID,
			Title:       article.Title,
			Slug:        article.Slug,
			Description: article.Description,
			Status:      article.Status,
			CategoryID:  article.CategoryID,
			AuthorID:    article.AuthorID,
			ImageURL:    article.ImageURL,
			UpdatedAt:   article.UpdatedAt,
		},
		Timestamp: now.UTC(),
	}
}

func subscriberMessage(subscriber *domain.Subscriber, now time.Time) EventMessage {
	return EventMessage{
		Type:       SubscriberCreated,
		Subscriber: subscriber,
		Timestamp:  now.UTC(),
	}
}

func (r *RabbitMQ) PublishArticle(ctx context.Context, event domain.ArticleEvent, article *domain.Article) error {
	if err := r.publish(ctx, articleMessage(event, article, time.Now())); err != nil {
		return err
	}

	r.logger.Debug("published article event",
		"article_id", article.ID,
		"event", event,
	)
	return nil
}

func (r *RabbitMQ) PublishSubscriber(ctx context.Context, subscriber *domain.Subscriber) error {
	if err := r.publish(ctx, subscriberMessage(subscriber, time.Now())); err != nil {
		return err
	}

	r.logger.Debug("published subscriber event", "subscriber_id", subscriber.ID)
	return nil
}

func (r *RabbitMQ) publish(ctx context.Context, msg EventMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         msg.Type,
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
