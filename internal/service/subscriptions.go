package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"devblog/internal/domain"
	"devblog/internal/forms"
)

type SubscriptionService struct {
	subscribers SubscriberStore
	publisher   Publisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewSubscriptionService(subscribers SubscriberStore, publisher Publisher, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscribers: subscribers,
		publisher:   publisher,
		logger:      logger.With("component", "subscriptions"),
		now:         time.Now,
	}
}

// Subscribe stores the address. A repeated address is a validation error on
// email.
func (s *SubscriptionService) Subscribe(ctx context.Context, form forms.SubscribeForm) (*domain.Subscriber, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	subscriber := &domain.Subscriber{
		Email:        form.Email,
		SubscribedAt: s.now().UTC(),
	}
	if err := s.subscribers.Create(ctx, subscriber); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("email", "This email is already subscribed.")
		}
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSubscriber(ctx, subscriber); err != nil {
			s.logger.Warn("publish subscriber failed", "subscriber_id", subscriber.ID, "error", err)
		}
	}

	s.logger.Info("subscriber added", "subscriber_id", subscriber.ID)

	return subscriber, nil
}
