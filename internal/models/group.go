package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GroupCapacity is the maximum number of students in one group.
const GroupCapacity = 30

type Group struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Name      string    `json:"name"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

func (g Group) ScopeCourseID() uuid.UUID {
	return g.CourseID
}

// GroupName is the name given to the n-th group of a course (n is 1-based).
func GroupName(courseTitle string, n int) string {
	return fmt.Sprintf("%s - Group %d", courseTitle, n)
}

// GroupLoad is a group together with its current number of students.
type GroupLoad struct {
	Group
	Students int `json:"students_count"`
}

func (l GroupLoad) HasRoom(capacity int) bool {
	return l.Students < capacity
}

func (l GroupLoad) FilledPercent() float64 {
	return float64(l.Students) / float64(GroupCapacity) * 100
}

type Student struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type GroupRoster struct {
	Group
	Students      []Student `json:"students"`
	FilledPercent float64   `json:"filled_percent"`
}
