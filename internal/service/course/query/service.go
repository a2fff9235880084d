package query

import (
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListCourses(ctx context.Context, limit int, offset int) ([]models.Course, error)
	CountCourses(ctx context.Context) (int, error)
}

type lessonRepo interface {
	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
}

type groupRepo interface {
	GroupLoads(ctx context.Context, courseID uuid.UUID) ([]models.GroupLoad, error)
	CountCourseStudents(ctx context.Context, courseID uuid.UUID) (int, error)
}

type userRepo interface {
	CountUsers(ctx context.Context) (int, error)
}

type searchRepo interface {
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
	Count(ctx context.Context, query string) (int, error)
}

type logoRepo interface {
	GetLogoURL(ctx context.Context, objectKey string) (string, error)
}

type CourseQueryService struct {
	log        logger.Log
	courseRepo courseRepo
	lessonRepo lessonRepo
	groupRepo  groupRepo
	userRepo   userRepo
	searchRepo searchRepo
	logoRepo   logoRepo
}

// NewCourseQueryService accepts a nil logoRepo when logo storage is not configured.
func NewCourseQueryService(log logger.Log, c courseRepo, les lessonRepo, g groupRepo, u userRepo, s searchRepo, logo logoRepo) *CourseQueryService {
	return &CourseQueryService{
		log:        log,
		courseRepo: c,
		lessonRepo: les,
		groupRepo:  g,
		userRepo:   u,
		searchRepo: s,
		logoRepo:   logo,
	}
}

func (s *CourseQueryService) CourseByID(ctx context.Context, id uuid.UUID) (*models.CourseDetail, error) {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, *course)
}

func (s *CourseQueryService) ListCourses(ctx context.Context, count int, offset int) ([]models.CourseDetail, int, error) {
	courses, err := s.courseRepo.ListCourses(ctx, count, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.courseRepo.CountCourses(ctx)
	if err != nil {
		return nil, 0, err
	}

	details := make([]models.CourseDetail, 0, len(courses))
	for _, c := range courses {
		d, err := s.detail(ctx, c)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, *d)
	}
	return details, total, nil
}

func (s *CourseQueryService) SearchCourses(ctx context.Context, query string, count int, offset int) ([]models.CourseDetail, int, error) {
	ids, err := s.searchRepo.Search(ctx, query, count+offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search courses: %w", err)
	}

	if len(ids) > offset {
		ids = ids[offset:]
	} else {
		ids = nil
	}
	if len(ids) > count {
		ids = ids[:count]
	}
	if len(ids) == 0 {
		return []models.CourseDetail{}, 0, nil
	}

	total, err := s.searchRepo.Count(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("search count: %w", err)
	}

	details := make([]models.CourseDetail, 0, len(ids))
	for _, id := range ids {
		course, err := s.courseRepo.CourseByID(ctx, id)
		if err != nil {
			s.log.ErrorErr("search: failed to load course by id", err, "course_id", id)
			continue
		}
		d, err := s.detail(ctx, *course)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, *d)
	}
	return details, total, nil
}

func (s *CourseQueryService) detail(ctx context.Context, course models.Course) (*models.CourseDetail, error) {
	lessons, err := s.lessonRepo.LessonsByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	stats.LessonsCount = len(lessons)

	titles := make([]string, 0, len(lessons))
	for _, l := range lessons {
		titles = append(titles, l.Title)
	}

	d := &models.CourseDetail{
		Course:      course,
		CourseStats: stats,
		Lessons:     titles,
	}
	if course.LogoObjectKey != "" && s.logoRepo != nil {
		url, err := s.logoRepo.GetLogoURL(ctx, course.LogoObjectKey)
		if err != nil {
			s.log.ErrorErr("course detail: failed to get logo URL", err)
		} else {
			d.LogoURL = url
		}
	}
	return d, nil
}

// stats fills everything except LessonsCount.
func (s *CourseQueryService) stats(ctx context.Context, courseID uuid.UUID) (models.CourseStats, error) {
	var st models.CourseStats

	loads, err := s.groupRepo.GroupLoads(ctx, courseID)
	if err != nil {
		return st, err
	}
	st.GroupsFilledPercent = groupsFilledPercent(loads)

	students, err := s.groupRepo.CountCourseStudents(ctx, courseID)
	if err != nil {
		return st, err
	}
	st.StudentsCount = students

	users, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return st, err
	}
	st.DemandCoursePercent = demandPercent(students, users)
	return st, nil
}

func groupsFilledPercent(loads []models.GroupLoad) int {
	if len(loads) == 0 {
		return 0
	}
	var total float64
	for _, l := range loads {
		total += l.FilledPercent()
	}
	return int(math.Round(total / float64(len(loads))))
}

func demandPercent(students, users int) float64 {
	if users == 0 {
		return 0
	}
	return float64(students) / float64(users) * 100
}
