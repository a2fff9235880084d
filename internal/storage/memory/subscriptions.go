package memory

import (
	"context"
	"sort"

	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"

	"github.com/google/uuid"
)

func (s *Store) HasActiveSubscription(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.active[subscriptionKey{userID: userID, courseID: courseID}]
	return ok, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[sub.UserID]; !ok {
		return nil, app_errors.ErrUserNotFound
	}
	if _, ok := s.courses[sub.CourseID]; !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	key := subscriptionKey{userID: sub.UserID, courseID: sub.CourseID}
	if sub.Active {
		if _, ok := s.active[key]; ok {
			return nil, app_errors.ErrAlreadySubscribed
		}
		s.active[key] = sub.ID
	}
	c := sub
	s.subscriptions[c.ID] = &c
	return &sub, nil
}

func (s *Store) SubscriptionByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, app_errors.ErrSubscriptionNotFound
	}
	c := *sub
	return &c, nil
}

func (s *Store) SubscriptionsByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Subscription{}
	for _, sub := range s.subscriptions {
		if sub.UserID == userID {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
