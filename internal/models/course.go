package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID            uuid.UUID `json:"id"`
	Author        string    `json:"author"`
	Title         string    `json:"title"`
	StartDate     time.Time `json:"start_date"`
	Price         Money     `json:"price"`
	LogoObjectKey string    `json:"logo_object_key,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Lesson struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

func (l Lesson) ScopeCourseID() uuid.UUID {
	return l.CourseID
}

type CourseStats struct {
	LessonsCount        int     `json:"lessons_count"`
	StudentsCount       int     `json:"students_count"`
	GroupsFilledPercent int     `json:"groups_filled_percent"`
	DemandCoursePercent float64 `json:"demand_course_percent"`
}

type CourseDetail struct {
	Course
	CourseStats
	LogoURL string   `json:"logo_url,omitempty"`
	Lessons []string `json:"lessons"`
}
