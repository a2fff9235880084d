// Package access decides whether a principal may read a resource.
package access

import (
	"CourseMarket/internal/models"
	"context"

	"github.com/google/uuid"
)

// CourseScoped is implemented by resources that belong to exactly one course.
// Reading them requires an active subscription to that course.
type CourseScoped interface {
	ScopeCourseID() uuid.UUID
}

// Course scopes a request to a whole course, e.g. listing its lessons.
type Course uuid.UUID

func (c Course) ScopeCourseID() uuid.UUID {
	return uuid.UUID(c)
}

type Principal struct {
	UserID uuid.UUID
	Roles  []string
}

func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == models.AdminRole {
			return true
		}
	}
	return false
}

type subscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type Checker struct {
	subs subscriptionChecker
}

func NewChecker(subs subscriptionChecker) *Checker {
	return &Checker{subs: subs}
}

// CanView: admins see everything; a subscription is visible to its owner while
// active; course-scoped resources need an active subscription to the course.
// Anything else is denied.
func (c *Checker) CanView(ctx context.Context, p Principal, resource any) (bool, error) {
	if p.IsAdmin() {
		return true, nil
	}

	switch r := resource.(type) {
	case *models.Subscription:
		return r.UserID == p.UserID && r.Active, nil
	case models.Subscription:
		return r.UserID == p.UserID && r.Active, nil
	case CourseScoped:
		return c.subs.HasActiveSubscription(ctx, p.UserID, r.ScopeCourseID())
	}
	return false, nil
}
