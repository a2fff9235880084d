package postgres

import (
	"CourseMarket/internal/models"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseSearchPostgres matches courses by title or author with ILIKE. It is the
// fallback when no search cluster is configured.
type CourseSearchPostgres struct {
	db *pgxpool.Pool
}

func NewCourseSearchPostgres(db *pgxpool.Pool) *CourseSearchPostgres {
	return &CourseSearchPostgres{db: db}
}

func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(query)) + "%"
}

// Index is a no-op: rows are searchable as soon as they are inserted.
func (r *CourseSearchPostgres) Index(ctx context.Context, course models.Course) error {
	return nil
}

func (r *CourseSearchPostgres) Search(ctx context.Context, query string, size int) ([]uuid.UUID, error) {
	if size <= 0 {
		size = 10
	}
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT id FROM courses
		WHERE title ILIKE $1 OR author ILIKE $1
		ORDER BY created_at DESC, id
		LIMIT $2`, likePattern(query), size)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *CourseSearchPostgres) Count(ctx context.Context, query string) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT count(*) FROM courses WHERE title ILIKE $1 OR author ILIKE $1`,
		likePattern(query)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return n, nil
}
