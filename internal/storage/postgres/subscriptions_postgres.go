package postgres

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionPostgres struct {
	db *pgxpool.Pool
}

func NewSubscriptionPostgres(db *pgxpool.Pool) *SubscriptionPostgres {
	return &SubscriptionPostgres{db: db}
}

func (r *SubscriptionPostgres) HasActiveSubscription(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM course_subscriptions
			WHERE user_id = $1 AND course_id = $2 AND active
		)
	`
	var ok bool
	if err := conn(ctx, r.db).QueryRow(ctx, query, userID, courseID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}
	return ok, nil
}

func (r *SubscriptionPostgres) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	query := `
		INSERT INTO course_subscriptions (id, user_id, course_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := conn(ctx, r.db).Exec(ctx, query, sub.ID, sub.UserID, sub.CourseID, sub.Active, sub.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, app_errors.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return &sub, nil
}

func (r *SubscriptionPostgres) SubscriptionByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	query := `SELECT id, user_id, course_id, active, created_at FROM course_subscriptions WHERE id = $1`
	var s models.Subscription
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(&s.ID, &s.UserID, &s.CourseID, &s.Active, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionPostgres) SubscriptionsByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	query := `
		SELECT id, user_id, course_id, active, created_at
		FROM course_subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []models.Subscription{}
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.CourseID, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
