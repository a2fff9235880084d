package service

import (
	"CourseMarket/internal/events"
	"CourseMarket/internal/models"
	"CourseMarket/internal/service/access"
	"CourseMarket/internal/service/auth"
	"CourseMarket/internal/service/balance"
	"CourseMarket/internal/service/course/management"
	"CourseMarket/internal/service/course/purchase"
	"CourseMarket/internal/service/course/query"
	"CourseMarket/internal/service/group"
	"CourseMarket/internal/service/lesson"
	"CourseMarket/internal/service/subscription"
	"CourseMarket/pkg/logger"
	"context"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type UserRepo interface {
	auth.AuthRepo
	CountUsers(ctx context.Context) (int, error)
}

type TokenRepo interface {
	Create(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	ByPrimaryKey(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) error
}

type BalanceRepo interface {
	BalanceByUser(ctx context.Context, userID uuid.UUID) (*models.Balance, error)
	Debit(ctx context.Context, userID uuid.UUID, amount models.Money) (*models.Balance, error)
}

type CourseRepo interface {
	NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateCourseLogo(ctx context.Context, courseID uuid.UUID, logoObjectKey string) error
	ListCourses(ctx context.Context, limit int, offset int) ([]models.Course, error)
	CountCourses(ctx context.Context) (int, error)
}

type LessonRepo interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
}

type GroupRepo interface {
	GroupLoads(ctx context.Context, courseID uuid.UUID) ([]models.GroupLoad, error)
	CreateGroup(ctx context.Context, group models.Group) (*models.Group, error)
	AddStudent(ctx context.Context, groupID, userID uuid.UUID) error
	GroupStudents(ctx context.Context, groupID uuid.UUID) ([]models.Student, error)
	CountCourseStudents(ctx context.Context, courseID uuid.UUID) (int, error)
}

type SubscriptionRepo interface {
	HasActiveSubscription(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	SubscriptionByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	SubscriptionsByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
}

type SearchRepo interface {
	Index(ctx context.Context, course models.Course) error
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
	Count(ctx context.Context, query string) (int, error)
}

type LogoRepo interface {
	GetLogoURL(ctx context.Context, objectKey string) (string, error)
	UploadLogo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (objectKey string, err error)
	DeleteLogo(ctx context.Context, objectKey string) error
}

type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Deps are the storage backends behind a Collection. Logos may be nil, but
// never a typed nil pointer.
type Deps struct {
	Users          UserRepo
	Tokens         TokenRepo
	Balances       BalanceRepo
	Courses        CourseRepo
	Lessons        LessonRepo
	Groups         GroupRepo
	Subscriptions  SubscriptionRepo
	Search         SearchRepo
	Logos          LogoRepo
	Locker         Locker
	JWT            *auth.JWTManager
	InitialBalance models.Money
}

type Collection struct {
	*auth.AuthService
	Ledger       *balance.Ledger
	Registry     *subscription.Registry
	Purchase     *purchase.PurchaseService
	Assigner     *group.Assigner
	Groups       *group.GroupService
	CourseQuery  *query.CourseQueryService
	CourseManage *management.CourseManagementService
	Lessons      *lesson.LessonService
	Access       *access.Checker
}

// New wires the services. The group assigner is subscribed to subscription
// creation before anything can publish.
func New(log logger.Log, d Deps) Collection {
	dispatcher := events.NewDispatcher()

	ledger := balance.NewLedger(log.With("service", "balance"), d.Balances)
	registry := subscription.NewRegistry(log.With("service", "subscription"), d.Subscriptions, dispatcher)
	assigner := group.NewAssigner(log.With("service", "group_assigner"), d.Courses, d.Groups, d.Locker)
	dispatcher.OnSubscriptionCreated(assigner.HandleSubscriptionCreated)

	return Collection{
		AuthService: auth.NewAuthService(log.With("service", "auth"), d.JWT, d.Users, d.Tokens, d.InitialBalance),
		Ledger:      ledger,
		Registry:    registry,
		Purchase:    purchase.NewPurchaseService(log.With("service", "purchase"), d.Courses, ledger, registry, d.Locker),
		Assigner:    assigner,
		Groups:      group.NewGroupService(log.With("service", "group"), d.Courses, d.Groups, d.Locker),
		CourseQuery: query.NewCourseQueryService(log.With("service", "course_query"), d.Courses, d.Lessons, d.Groups,
			d.Users, d.Search, d.Logos),
		CourseManage: management.NewCourseManagementService(log.With("service", "course_management"), d.Courses,
			d.Search, d.Logos),
		Lessons: lesson.NewLessonService(log.With("service", "lesson"), d.Lessons, d.Courses),
		Access:  access.NewChecker(registry),
	}
}
