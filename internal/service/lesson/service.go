package lesson

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type lessonRepo interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type LessonService struct {
	log        logger.Log
	lessonRepo lessonRepo
	courseRepo courseRepo
}

func NewLessonService(l logger.Log, lessonRepo lessonRepo, courseRepo courseRepo) *LessonService {
	return &LessonService{
		log:        l,
		lessonRepo: lessonRepo,
		courseRepo: courseRepo,
	}
}

func (s *LessonService) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	if _, err := s.courseRepo.CourseByID(ctx, lesson.CourseID); err != nil {
		return nil, err
	}
	lesson.Title = strings.TrimSpace(lesson.Title)
	if lesson.Title == "" {
		return nil, fmt.Errorf("%w: lesson title is required", app_errors.ErrValidation)
	}
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	lesson.CreatedAt = time.Now().UTC()

	created, err := s.lessonRepo.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, err
	}
	s.log.Info("lesson created", "course_id", created.CourseID, "lesson_id", created.ID)
	return created, nil
}

func (s *LessonService) LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	return s.lessonRepo.LessonByID(ctx, id)
}

func (s *LessonService) LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	if _, err := s.courseRepo.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.lessonRepo.LessonsByCourse(ctx, courseID)
}
