package postgres

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroupPostgres struct {
	db *pgxpool.Pool
}

func NewGroupPostgres(db *pgxpool.Pool) *GroupPostgres {
	return &GroupPostgres{db: db}
}

func (r *GroupPostgres) GroupLoads(ctx context.Context, courseID uuid.UUID) ([]models.GroupLoad, error) {
	query := `
		SELECT g.id, g.course_id, g.name, g.number, g.created_at, count(gs.user_id)
		FROM course_groups g
		LEFT JOIN group_students gs ON gs.group_id = g.id
		WHERE g.course_id = $1
		GROUP BY g.id
		ORDER BY g.number
	`
	rows, err := conn(ctx, r.db).Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("query group loads: %w", err)
	}
	defer rows.Close()

	loads := []models.GroupLoad{}
	for rows.Next() {
		var l models.GroupLoad
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Name, &l.Number, &l.CreatedAt, &l.Students); err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}

func (r *GroupPostgres) CreateGroup(ctx context.Context, group models.Group) (*models.Group, error) {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	query := `
		INSERT INTO course_groups (id, course_id, name, number, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := conn(ctx, r.db).Exec(ctx, query, group.ID, group.CourseID, group.Name, group.Number, group.CreatedAt)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == "23503" {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("insert group: %w", err)
	}
	return &group, nil
}

func (r *GroupPostgres) AddStudent(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `
		INSERT INTO group_students (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := conn(ctx, r.db).Exec(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("add student: %w", err)
	}
	return nil
}

func (r *GroupPostgres) GroupStudents(ctx context.Context, groupID uuid.UUID) ([]models.Student, error) {
	query := `
		SELECT u.id, u.username, u.email
		FROM group_students gs
		JOIN users u ON u.id = gs.user_id
		WHERE gs.group_id = $1
		ORDER BY u.username
	`
	rows, err := conn(ctx, r.db).Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("query group students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Username, &s.Email); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *GroupPostgres) CountCourseStudents(ctx context.Context, courseID uuid.UUID) (int, error) {
	query := `
		SELECT count(DISTINCT gs.user_id)
		FROM group_students gs
		JOIN course_groups g ON g.id = gs.group_id
		WHERE g.course_id = $1
	`
	var n int
	if err := conn(ctx, r.db).QueryRow(ctx, query, courseID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
