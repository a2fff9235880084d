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

type BalancePostgres struct {
	db *pgxpool.Pool
}

func NewBalancePostgres(db *pgxpool.Pool) *BalancePostgres {
	return &BalancePostgres{db: db}
}

func (r *BalancePostgres) BalanceByUser(ctx context.Context, userID uuid.UUID) (*models.Balance, error) {
	query := `SELECT user_id, amount, updated_at FROM balances WHERE user_id = $1`
	var b models.Balance
	var amount int64
	err := conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(&b.UserID, &amount, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrBalanceNotFound
		}
		return nil, err
	}
	b.Amount = models.Money(amount)
	return &b, nil
}

// Debit is a single conditional UPDATE: the row changes only when the balance
// covers the amount, and the stored value never drops below zero.
func (r *BalancePostgres) Debit(ctx context.Context, userID uuid.UUID, amount models.Money) (*models.Balance, error) {
	query := `
		UPDATE balances
		SET amount = GREATEST(amount - $2, 0), updated_at = now()
		WHERE user_id = $1 AND amount >= $2
		RETURNING user_id, amount, updated_at
	`
	var b models.Balance
	var left int64
	err := conn(ctx, r.db).QueryRow(ctx, query, userID, int64(amount)).Scan(&b.UserID, &left, &b.UpdatedAt)
	if err == nil {
		b.Amount = models.Money(left)
		return &b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("debit: %w", err)
	}

	if _, err := r.BalanceByUser(ctx, userID); err != nil {
		return nil, err
	}
	return nil, app_errors.ErrInsufficientFunds
}
