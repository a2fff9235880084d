package management

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxLogoSizeBytes = 5 << 20

type courseRepo interface {
	NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateCourseLogo(ctx context.Context, courseID uuid.UUID, logoObjectKey string) error
}

type searchRepo interface {
	Index(ctx context.Context, course models.Course) error
}

type logoRepo interface {
	GetLogoURL(ctx context.Context, objectKey string) (string, error)
	UploadLogo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (objectKey string, err error)
	DeleteLogo(ctx context.Context, objectKey string) error
}

type CourseManagementService struct {
	log        logger.Log
	courseRepo courseRepo
	searchRepo searchRepo
	logoRepo   logoRepo
}

// NewCourseManagementService accepts a nil logoRepo; logo uploads then fail with ErrLogoStorageDisabled.
func NewCourseManagementService(l logger.Log, c courseRepo, s searchRepo, logo logoRepo) *CourseManagementService {
	return &CourseManagementService{
		log:        l,
		courseRepo: c,
		searchRepo: s,
		logoRepo:   logo,
	}
}

func (s *CourseManagementService) CreateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	course.Title = strings.TrimSpace(course.Title)
	course.Author = strings.TrimSpace(course.Author)
	if course.Title == "" {
		return nil, fmt.Errorf("%w: title is required", app_errors.ErrValidation)
	}
	if course.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", app_errors.ErrValidation)
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}

	if _, err := s.courseRepo.NewCourse(ctx, &course); err != nil {
		return nil, err
	}

	if err := s.searchRepo.Index(ctx, course); err != nil {
		s.log.ErrorErr("error indexing course", err, "course_id", course.ID)
	}
	s.log.Info("course created", "course_id", course.ID, "price", course.Price.String())
	return &course, nil
}

func (s *CourseManagementService) UploadCourseLogo(
	ctx context.Context,
	courseID uuid.UUID,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (string, error) {
	if s.logoRepo == nil {
		return "", app_errors.ErrLogoStorageDisabled
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return "", err
	}

	if size > maxLogoSizeBytes {
		return "", app_errors.ErrFileSize
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", app_errors.ErrNotImage
	}

	if course.LogoObjectKey != "" {
		if err := s.logoRepo.DeleteLogo(ctx, course.LogoObjectKey); err != nil {
			s.log.ErrorErr("failed to delete previous logo", err)
		}
	}

	objectKey, err := s.logoRepo.UploadLogo(ctx, courseID, filename, reader, size, contentType)
	if err != nil {
		s.log.ErrorErr("failed to upload logo to storage", err)
		return "", err
	}

	if err = s.courseRepo.UpdateCourseLogo(ctx, courseID, objectKey); err != nil {
		s.log.ErrorErr("failed to save logo key to db", err)
		return "", err
	}
	url, err := s.logoRepo.GetLogoURL(ctx, objectKey)
	if err != nil {
		s.log.ErrorErr("failed to get presigned URL", err)
		return "", err
	}

	return url, nil
}
