package memory

import (
	"context"
	"time"

	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"

	"github.com/google/uuid"
)

// putBalance is the only write path for balances. Caller holds s.mu.
func (s *Store) putBalance(b models.Balance) {
	b.Clamp()
	b.UpdatedAt = time.Now().UTC()
	s.balances[b.UserID] = &b
}

// SaveBalance overwrites a balance. Negative amounts are stored as zero.
// Nothing in the service layer writes balances directly; tests use it to seed state.
func (s *Store) SaveBalance(ctx context.Context, b models.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[b.UserID]; !ok {
		return app_errors.ErrUserNotFound
	}
	s.putBalance(b)
	return nil
}

func (s *Store) BalanceByUser(ctx context.Context, userID uuid.UUID) (*models.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.balances[userID]
	if !ok {
		return nil, app_errors.ErrBalanceNotFound
	}
	c := *b
	return &c, nil
}

func (s *Store) Debit(ctx context.Context, userID uuid.UUID, amount models.Money) (*models.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[userID]
	if !ok {
		return nil, app_errors.ErrBalanceNotFound
	}
	if b.Amount < amount {
		return nil, app_errors.ErrInsufficientFunds
	}
	s.putBalance(models.Balance{UserID: userID, Amount: b.Amount - amount})

	c := *s.balances[userID]
	return &c, nil
}
