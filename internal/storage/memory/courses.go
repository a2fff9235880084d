package memory

import (
	"context"
	"sort"
	"strings"

	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"

	"github.com/google/uuid"
)

func (s *Store) NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	c := *course
	s.courses[c.ID] = &c
	return c.ID, nil
}

func (s *Store) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	cc := *c
	return &cc, nil
}

func (s *Store) UpdateCourseLogo(ctx context.Context, courseID uuid.UUID, logoObjectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return app_errors.ErrCourseNotFound
	}
	c.LogoObjectKey = logoObjectKey
	return nil
}

// sortedCourses returns courses newest first. Caller holds s.mu.
func (s *Store) sortedCourses() []models.Course {
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *Store) ListCourses(ctx context.Context, limit int, offset int) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sortedCourses()
	if offset >= len(all) {
		return []models.Course{}, nil
	}
	all = all[offset:]
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) CountCourses(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses), nil
}

// CourseSearch is a substring matcher over course titles and authors, used
// when no search cluster is configured.
type CourseSearch struct {
	store *Store
}

func NewCourseSearch(s *Store) *CourseSearch {
	return &CourseSearch{store: s}
}

func (cs *CourseSearch) Index(ctx context.Context, course models.Course) error {
	return nil
}

func (cs *CourseSearch) matches(query string) []uuid.UUID {
	q := strings.ToLower(strings.TrimSpace(query))
	cs.store.mu.RLock()
	defer cs.store.mu.RUnlock()

	var ids []uuid.UUID
	for _, c := range cs.store.sortedCourses() {
		if q == "" || strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.Author), q) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (cs *CourseSearch) Search(ctx context.Context, query string, size int) ([]uuid.UUID, error) {
	if size <= 0 {
		size = 10
	}
	ids := cs.matches(query)
	if len(ids) > size {
		ids = ids[:size]
	}
	return ids, nil
}

func (cs *CourseSearch) Count(ctx context.Context, query string) (int, error) {
	return len(cs.matches(query)), nil
}
