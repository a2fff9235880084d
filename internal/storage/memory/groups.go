package memory

import (
	"context"
	"sort"

	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"

	"github.com/google/uuid"
)

func (s *Store) GroupLoads(ctx context.Context, courseID uuid.UUID) ([]models.GroupLoad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loads := []models.GroupLoad{}
	for _, g := range s.groups {
		if g.CourseID == courseID {
			loads = append(loads, models.GroupLoad{Group: *g, Students: len(s.members[g.ID])})
		}
	}
	sort.Slice(loads, func(i, j int) bool { return loads[i].Number < loads[j].Number })
	return loads, nil
}

func (s *Store) CreateGroup(ctx context.Context, group models.Group) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[group.CourseID]; !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	g := group
	s.groups[g.ID] = &g
	s.members[g.ID] = make(map[uuid.UUID]struct{})
	return &group, nil
}

func (s *Store) AddStudent(ctx context.Context, groupID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.members[groupID]
	if !ok {
		return app_errors.ErrGroupNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return app_errors.ErrUserNotFound
	}
	set[userID] = struct{}{}
	return nil
}

func (s *Store) GroupStudents(ctx context.Context, groupID uuid.UUID) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.members[groupID]
	if !ok {
		return nil, app_errors.ErrGroupNotFound
	}
	out := make([]models.Student, 0, len(set))
	for id := range set {
		u := s.users[id]
		out = append(out, models.Student{ID: u.ID, Username: u.Username, Email: u.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// CountCourseStudents counts distinct students across all groups of the course.
func (s *Store) CountCourseStudents(ctx context.Context, courseID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{})
	for _, g := range s.groups {
		if g.CourseID != courseID {
			continue
		}
		for id := range s.members[g.ID] {
			seen[id] = struct{}{}
		}
	}
	return len(seen), nil
}

// StudentGroups returns the groups of the course the user belongs to. Used by
// tests to check membership; the HTTP layer reads rosters instead.
func (s *Store) StudentGroups(ctx context.Context, courseID, userID uuid.UUID) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Group
	for _, g := range s.groups {
		if g.CourseID != courseID {
			continue
		}
		if _, ok := s.members[g.ID][userID]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}
