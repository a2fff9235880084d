package balance

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type balanceRepo interface {
	BalanceByUser(ctx context.Context, userID uuid.UUID) (*models.Balance, error)
	// Debit must check and decrement as one indivisible step and fail with
	// app_errors.ErrInsufficientFunds without touching the row when funds are short.
	Debit(ctx context.Context, userID uuid.UUID, amount models.Money) (*models.Balance, error)
}

type Ledger struct {
	log  logger.Log
	repo balanceRepo
}

func NewLedger(l logger.Log, repo balanceRepo) *Ledger {
	return &Ledger{
		log:  l,
		repo: repo,
	}
}

func (s *Ledger) Balance(ctx context.Context, userID uuid.UUID) (*models.Balance, error) {
	return s.repo.BalanceByUser(ctx, userID)
}

func (s *Ledger) Debit(ctx context.Context, userID uuid.UUID, amount models.Money) (*models.Balance, error) {
	if amount.IsNegative() {
		return nil, app_errors.ErrInvalidAmount
	}

	b, err := s.repo.Debit(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, app_errors.ErrInsufficientFunds) {
			s.log.Debug("debit rejected", "user_id", userID, "amount", amount.String())
			return nil, err
		}
		return nil, fmt.Errorf("debit balance: %w", err)
	}
	b.Clamp()
	return b, nil
}
