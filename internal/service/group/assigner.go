package group

import (
	"CourseMarket/internal/events"
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type groupRepo interface {
	GroupLoads(ctx context.Context, courseID uuid.UUID) ([]models.GroupLoad, error)
	CreateGroup(ctx context.Context, group models.Group) (*models.Group, error)
	// AddStudent is a set insert: adding a student twice is not an error.
	AddStudent(ctx context.Context, groupID, userID uuid.UUID) error
}

type locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

func courseLockKey(courseID uuid.UUID) string {
	return "course-groups:" + courseID.String()
}

// Assigner places newly subscribed students into a group of the course.
type Assigner struct {
	log      logger.Log
	courses  courseRepo
	groups   groupRepo
	locker   locker
	capacity int
}

func NewAssigner(l logger.Log, c courseRepo, g groupRepo, lk locker) *Assigner {
	return &Assigner{
		log:      l,
		courses:  c,
		groups:   g,
		locker:   lk,
		capacity: models.GroupCapacity,
	}
}

func (a *Assigner) HandleSubscriptionCreated(ctx context.Context, e events.SubscriptionCreated) error {
	_, err := a.Assign(ctx, e.Subscription.CourseID, e.Subscription.UserID)
	return err
}

// Assign puts the student into the least loaded group with room, creating
// "<title> - Group <N+1>" when all N existing groups are full. Counting and
// inserting happen under one per-course lock so the capacity holds under
// concurrent purchases.
func (a *Assigner) Assign(ctx context.Context, courseID, studentID uuid.UUID) (*models.Group, error) {
	course, err := a.courses.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var chosen *models.Group
	err = a.locker.WithLock(ctx, courseLockKey(courseID), func(ctx context.Context) error {
		loads, err := a.groups.GroupLoads(ctx, courseID)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}

		if l, ok := pickGroup(loads, a.capacity); ok {
			g := l.Group
			chosen = &g
		} else {
			n := len(loads) + 1
			chosen, err = a.groups.CreateGroup(ctx, models.Group{
				ID:        uuid.New(),
				CourseID:  courseID,
				Name:      models.GroupName(course.Title, n),
				Number:    n,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("create group: %w", err)
			}
			a.log.Info("group created", "course_id", courseID, "group", chosen.Name)
		}

		if err := a.groups.AddStudent(ctx, chosen.ID, studentID); err != nil {
			return fmt.Errorf("add student to group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.Debug("student assigned", "course_id", courseID, "user_id", studentID, "group_id", chosen.ID)
	return chosen, nil
}
