package postgres

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

const courseColumns = `id, author, title, start_date, price, logo_object_key, created_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	var price int64
	err := row.Scan(&c.ID, &c.Author, &c.Title, &c.StartDate, &price, &c.LogoObjectKey, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Price = models.Money(price)
	return &c, nil
}

func (r *CoursePostgres) NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		course.ID,
		course.Author,
		course.Title,
		course.StartDate,
		int64(course.Price),
		course.LogoObjectKey,
		course.CreatedAt,
	).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert course: %w", err)
	}
	return course.ID, nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	c, err := scanCourse(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CoursePostgres) UpdateCourseLogo(ctx context.Context, courseID uuid.UUID, logoObjectKey string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE courses SET logo_object_key = $2 WHERE id = $1`, courseID, logoObjectKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) ListCourses(ctx context.Context, limit int, offset int) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := conn(ctx, r.db).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *CoursePostgres) CountCourses(ctx context.Context) (int, error) {
	var n int
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT count(*) FROM courses`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
