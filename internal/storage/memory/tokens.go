package memory

import (
	"context"

	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenRepo stores hashed refresh tokens in the Store.
type TokenRepo struct {
	store *Store
}

func NewTokenRepo(s *Store) *TokenRepo {
	return &TokenRepo{store: s}
}

func (r *TokenRepo) Create(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	rt, err := models.NewRefreshToken(userID, token)
	if err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.tokens[userID] = append(r.store.tokens[userID], rt)
	return &rt, nil
}

func (r *TokenRepo) ByPrimaryKey(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	h := models.HashToken(token.Raw)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, rt := range r.store.tokens[userID] {
		if rt.HashedToken == h {
			c := rt
			return &c, nil
		}
	}
	return nil, app_errors.ErrTokenNotFound
}

func (r *TokenRepo) DeleteUserTokens(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.tokens, userID)
	return nil
}
