package memory

import (
	"context"
	"sort"

	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"

	"github.com/google/uuid"
)

func (s *Store) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[lesson.CourseID]; !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	l := lesson
	s.lessons[l.ID] = &l
	return &lesson, nil
}

func (s *Store) LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lessons[id]
	if !ok {
		return nil, app_errors.ErrLessonNotFound
	}
	c := *l
	return &c, nil
}

func (s *Store) LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Lesson{}
	for _, l := range s.lessons {
		if l.CourseID == courseID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
