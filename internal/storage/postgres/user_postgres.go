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

type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

func (r *UserPostgres) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.Roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgres) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT id, username, password, email, roles FROM users WHERE id = $1`
	return r.scanUser(conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *UserPostgres) UserByName(ctx context.Context, name string) (*models.User, error) {
	query := `SELECT id, username, password, email, roles FROM users WHERE username = $1`
	return r.scanUser(conn(ctx, r.db).QueryRow(ctx, query, name))
}

func (r *UserPostgres) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CreateUser inserts the user and its balance row in one transaction.
func (r *UserPostgres) CreateUser(ctx context.Context, user models.User, balance models.Money) (*models.User, error) {
	tx, err := conn(ctx, r.db).Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	queryUser := `INSERT INTO users (id, username, password, email, roles) VALUES ($1, $2, $3, $4, $5)`
	_, err = tx.Exec(ctx, queryUser, user.ID, user.Username, user.Password, user.Email, user.Roles)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, app_errors.ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	b := models.Balance{UserID: user.ID, Amount: balance}
	b.Clamp()
	queryBalance := `INSERT INTO balances (user_id, amount) VALUES ($1, $2)`
	if _, err = tx.Exec(ctx, queryBalance, b.UserID, int64(b.Amount)); err != nil {
		return nil, fmt.Errorf("failed to insert balance: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &user, nil
}
