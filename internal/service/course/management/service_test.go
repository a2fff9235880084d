package management

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"CourseMarket/internal/storage/memory"
	"CourseMarket/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSearch struct {
	indexed []models.Course
	err     error
}

func (r *recordingSearch) Index(ctx context.Context, course models.Course) error {
	r.indexed = append(r.indexed, course)
	return r.err
}

type fakeLogos struct {
	objects map[string][]byte
	deleted []string
}

func newFakeLogos() *fakeLogos {
	return &fakeLogos{objects: make(map[string][]byte)}
}

func (f *fakeLogos) GetLogoURL(ctx context.Context, objectKey string) (string, error) {
	return "https://logos.example.com/" + objectKey, nil
}

func (f *fakeLogos) UploadLogo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := courseID.String() + "/" + filename
	f.objects[key] = data
	return key, nil
}

func (f *fakeLogos) DeleteLogo(ctx context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	delete(f.objects, objectKey)
	return nil
}

func TestCreateCourse(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	search := &recordingSearch{}
	s := NewCourseManagementService(logger.Discard(), store, search, nil)

	c, err := s.CreateCourse(ctx, models.Course{Title: "  Go  ", Author: "Rob", Price: models.MustParseMoney("100")})
	require.NoError(t, err)
	assert.Equal(t, "Go", c.Title)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	stored, err := store.CourseByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Price, stored.Price)
	require.Len(t, search.indexed, 1)
	assert.Equal(t, c.ID, search.indexed[0].ID)
}

func TestCreateCourseValidation(t *testing.T) {
	s := NewCourseManagementService(logger.Discard(), memory.New(), &recordingSearch{}, nil)

	_, err := s.CreateCourse(context.Background(), models.Course{Title: " "})
	assert.ErrorIs(t, err, app_errors.ErrValidation)

	_, err = s.CreateCourse(context.Background(), models.Course{Title: "Go", Price: -1})
	assert.ErrorIs(t, err, app_errors.ErrValidation)
}

func TestCreateCourseIndexFailureIsNotFatal(t *testing.T) {
	s := NewCourseManagementService(logger.Discard(), memory.New(), &recordingSearch{err: errors.New("es down")}, nil)

	_, err := s.CreateCourse(context.Background(), models.Course{Title: "Go"})
	assert.NoError(t, err)
}

func TestUploadCourseLogo(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	logos := newFakeLogos()
	s := NewCourseManagementService(logger.Discard(), store, &recordingSearch{}, logos)
	c, err := s.CreateCourse(ctx, models.Course{Title: "Go"})
	require.NoError(t, err)

	url, err := s.UploadCourseLogo(ctx, c.ID, "a.png", bytes.NewReader([]byte("png")), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://logos.example.com/"+c.ID.String()+"/a.png", url)

	_, err = s.UploadCourseLogo(ctx, c.ID, "b.png", bytes.NewReader([]byte("png")), 3, "")
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID.String() + "/a.png"}, logos.deleted)

	stored, err := store.CourseByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID.String()+"/b.png", stored.LogoObjectKey)
}

func TestUploadCourseLogoRejects(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := NewCourseManagementService(logger.Discard(), store, &recordingSearch{}, newFakeLogos())
	c, err := s.CreateCourse(ctx, models.Course{Title: "Go"})
	require.NoError(t, err)

	_, err = s.UploadCourseLogo(ctx, c.ID, "a.txt", bytes.NewReader(nil), 1, "text/plain")
	assert.ErrorIs(t, err, app_errors.ErrNotImage)

	_, err = s.UploadCourseLogo(ctx, c.ID, "a.png", bytes.NewReader(nil), maxLogoSizeBytes+1, "image/png")
	assert.ErrorIs(t, err, app_errors.ErrFileSize)

	_, err = s.UploadCourseLogo(ctx, uuid.New(), "a.png", bytes.NewReader(nil), 1, "image/png")
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestUploadCourseLogoDisabled(t *testing.T) {
	s := NewCourseManagementService(logger.Discard(), memory.New(), &recordingSearch{}, nil)

	_, err := s.UploadCourseLogo(context.Background(), uuid.New(), "a.png", bytes.NewReader(nil), 1, "image/png")
	assert.ErrorIs(t, err, app_errors.ErrLogoStorageDisabled)
}
