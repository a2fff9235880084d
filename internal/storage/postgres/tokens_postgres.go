package postgres

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokensPostgres keeps hashed refresh tokens. A user holds at most the tokens
// of its latest login or refresh; the auth service clears older ones first.
type TokensPostgres struct {
	db *pgxpool.Pool
}

func NewTokensPostgres(db *pgxpool.Pool) *TokensPostgres {
	return &TokensPostgres{db: db}
}

func (r *TokensPostgres) Create(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	rt, err := models.NewRefreshToken(userID, token)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO refresh_tokens (user_id, hashed_token, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, hashed_token) DO UPDATE SET expires_at = EXCLUDED.expires_at
	`
	if _, err := conn(ctx, r.db).Exec(ctx, query, rt.UserID, rt.HashedToken, rt.CreatedAt, rt.ExpiresAt); err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == "23503" {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &rt, nil
}

// ByPrimaryKey finds the stored record of token for userID, expired or not.
func (r *TokensPostgres) ByPrimaryKey(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	query := `
		SELECT user_id, hashed_token, created_at, expires_at
		FROM refresh_tokens
		WHERE user_id = $1 AND hashed_token = $2
	`
	var rt models.RefreshToken
	err := conn(ctx, r.db).QueryRow(ctx, query, userID, models.HashToken(token.Raw)).
		Scan(&rt.UserID, &rt.HashedToken, &rt.CreatedAt, &rt.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	return &rt, nil
}

func (r *TokensPostgres) DeleteUserTokens(ctx context.Context, userID uuid.UUID) error {
	if _, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete refresh tokens: %w", err)
	}
	return nil
}
