package group

import (
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type rosterRepo interface {
	groupRepo
	GroupStudents(ctx context.Context, groupID uuid.UUID) ([]models.Student, error)
}

// GroupService is the admin side of groups: listing rosters and opening a group by hand.
type GroupService struct {
	log     logger.Log
	courses courseRepo
	groups  rosterRepo
	locker  locker
}

func NewGroupService(l logger.Log, c courseRepo, g rosterRepo, lk locker) *GroupService {
	return &GroupService{
		log:     l,
		courses: c,
		groups:  g,
		locker:  lk,
	}
}

func (s *GroupService) GroupsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.GroupRoster, error) {
	if _, err := s.courses.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	loads, err := s.groups.GroupLoads(ctx, courseID)
	if err != nil {
		return nil, err
	}

	rosters := make([]models.GroupRoster, 0, len(loads))
	for _, l := range loads {
		students, err := s.groups.GroupStudents(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		rosters = append(rosters, models.GroupRoster{
			Group:         l.Group,
			Students:      students,
			FilledPercent: l.FilledPercent(),
		})
	}
	return rosters, nil
}

// CreateGroup opens a new empty group. An empty name falls back to the same
// numbered name the assigner would use.
func (s *GroupService) CreateGroup(ctx context.Context, courseID uuid.UUID, name string) (*models.Group, error) {
	course, err := s.courses.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var created *models.Group
	err = s.locker.WithLock(ctx, courseLockKey(courseID), func(ctx context.Context) error {
		loads, err := s.groups.GroupLoads(ctx, courseID)
		if err != nil {
			return err
		}
		n := len(loads) + 1
		name = strings.TrimSpace(name)
		if name == "" {
			name = models.GroupName(course.Title, n)
		}
		created, err = s.groups.CreateGroup(ctx, models.Group{
			ID:        uuid.New(),
			CourseID:  courseID,
			Name:      name,
			Number:    n,
			CreatedAt: time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("group opened manually", "course_id", courseID, "group", created.Name)
	return created, nil
}
