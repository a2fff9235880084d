package purchase

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type ledger interface {
	Debit(ctx context.Context, userID uuid.UUID, amount models.Money) (*models.Balance, error)
}

type registry interface {
	HasActiveSubscription(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	Create(ctx context.Context, userID, courseID uuid.UUID) (*models.Subscription, error)
}

type locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type PurchaseService struct {
	log      logger.Log
	courses  courseRepo
	ledger   ledger
	registry registry
	locker   locker
}

func NewPurchaseService(l logger.Log, c courseRepo, lg ledger, r registry, lk locker) *PurchaseService {
	return &PurchaseService{
		log:      l,
		courses:  c,
		ledger:   lg,
		registry: r,
		locker:   lk,
	}
}

// Purchase buys access to a course with the user's balance. The gates run in
// order: existing active subscription, then funds, then creation. A rejected
// gate leaves no state behind. Creation notifies the group assigner before
// Purchase returns.
//
// If creation fails after the debit the amount is not returned to the balance.
func (s *PurchaseService) Purchase(ctx context.Context, userID, courseID uuid.UUID) (*models.Subscription, error) {
	course, err := s.courses.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var sub *models.Subscription
	err = s.locker.WithLock(ctx, "purchase:"+userID.String(), func(ctx context.Context) error {
		active, err := s.registry.HasActiveSubscription(ctx, userID, courseID)
		if err != nil {
			return fmt.Errorf("check subscription: %w", err)
		}
		if active {
			return app_errors.ErrAlreadySubscribed
		}

		balance, err := s.ledger.Debit(ctx, userID, course.Price)
		if err != nil {
			return err
		}

		sub, err = s.registry.Create(ctx, userID, courseID)
		if err != nil {
			s.log.ErrorErr("subscription not completed after debit", err,
				"user_id", userID, "course_id", courseID, "debited", course.Price.String())
			return err
		}

		s.log.Info("course purchased",
			"user_id", userID,
			"course_id", courseID,
			"price", course.Price.String(),
			"balance", balance.Amount.String(),
		)
		return nil
	})
	if err != nil {
		if errors.Is(err, app_errors.ErrAlreadySubscribed) || errors.Is(err, app_errors.ErrInsufficientFunds) {
			s.log.Debug("purchase rejected", "user_id", userID, "course_id", courseID, "reason", err.Error())
		}
		return nil, err
	}
	return sub, nil
}
