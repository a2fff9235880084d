package subscription

import (
	"CourseMarket/internal/events"
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type subscriptionRepo interface {
	HasActiveSubscription(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	SubscriptionByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	SubscriptionsByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
}

type publisher interface {
	PublishSubscriptionCreated(ctx context.Context, e events.SubscriptionCreated) error
}

// Registry records which users hold an active subscription to which course.
type Registry struct {
	log       logger.Log
	repo      subscriptionRepo
	publisher publisher
}

func NewRegistry(l logger.Log, repo subscriptionRepo, p publisher) *Registry {
	return &Registry{
		log:       l,
		repo:      repo,
		publisher: p,
	}
}

func (r *Registry) HasActiveSubscription(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return r.repo.HasActiveSubscription(ctx, userID, courseID)
}

// Create stores a new active subscription and notifies SubscriptionCreated
// consumers before returning. Funds are not checked here.
func (r *Registry) Create(ctx context.Context, userID, courseID uuid.UUID) (*models.Subscription, error) {
	sub, err := r.repo.CreateSubscription(ctx, models.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := r.publisher.PublishSubscriptionCreated(ctx, events.SubscriptionCreated{Subscription: *sub}); err != nil {
		r.log.ErrorErr("subscription created but a consumer failed", err,
			"subscription_id", sub.ID, "user_id", userID, "course_id", courseID)
		return sub, fmt.Errorf("notify subscription created: %w", err)
	}
	return sub, nil
}

func (r *Registry) SubscriptionByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	return r.repo.SubscriptionByID(ctx, id)
}

func (r *Registry) SubscriptionsByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	return r.repo.SubscriptionsByUser(ctx, userID)
}
