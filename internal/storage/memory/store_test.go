package memory

import (
	"context"
	"testing"
	"time"

	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, s *Store, name string, balance string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		Username: name,
		Email:    name + "@example.com",
		Roles:    []string{models.ClientRole},
	}, models.MustParseMoney(balance))
	require.NoError(t, err)
	return u
}

func newCourse(t *testing.T, s *Store, title string) *models.Course {
	t.Helper()
	c := &models.Course{Title: title, Author: "author", Price: models.MustParseMoney("100")}
	_, err := s.NewCourse(context.Background(), c)
	require.NoError(t, err)
	return c
}

func TestCreateUserCreatesBalance(t *testing.T) {
	s := New()
	u := newUser(t, s, "alice", "150.00")

	b, err := s.BalanceByUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MustParseMoney("150"), b.Amount)
	assert.False(t, b.UpdatedAt.IsZero())
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s := New()
	newUser(t, s, "alice", "0")

	_, err := s.CreateUser(context.Background(), models.User{Username: "alice", Email: "other@example.com"}, 0)
	assert.ErrorIs(t, err, app_errors.ErrUserExists)

	_, err = s.CreateUser(context.Background(), models.User{Username: "bob", Email: "alice@example.com"}, 0)
	assert.ErrorIs(t, err, app_errors.ErrUserExists)
}

func TestSaveBalanceClampsNegative(t *testing.T) {
	s := New()
	u := newUser(t, s, "alice", "10")

	require.NoError(t, s.SaveBalance(context.Background(), models.Balance{UserID: u.ID, Amount: -500}))

	b, err := s.BalanceByUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), b.Amount)
}

func TestDebit(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := newUser(t, s, "alice", "150")

	b, err := s.Debit(ctx, u.ID, models.MustParseMoney("100"))
	require.NoError(t, err)
	assert.Equal(t, models.MustParseMoney("50"), b.Amount)

	_, err = s.Debit(ctx, u.ID, models.MustParseMoney("50.01"))
	assert.ErrorIs(t, err, app_errors.ErrInsufficientFunds)

	b, err = s.BalanceByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MustParseMoney("50"), b.Amount)

	b, err = s.Debit(ctx, u.ID, models.MustParseMoney("50"))
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), b.Amount)

	_, err = s.Debit(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, app_errors.ErrBalanceNotFound)
}

func TestCreateSubscriptionOneActivePerCourse(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := newUser(t, s, "alice", "0")
	c := newCourse(t, s, "Go")

	sub := models.Subscription{ID: uuid.New(), UserID: u.ID, CourseID: c.ID, Active: true, CreatedAt: time.Now()}
	_, err := s.CreateSubscription(ctx, sub)
	require.NoError(t, err)

	active, err := s.HasActiveSubscription(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, active)

	sub.ID = uuid.New()
	_, err = s.CreateSubscription(ctx, sub)
	assert.ErrorIs(t, err, app_errors.ErrAlreadySubscribed)

	subs, err := s.SubscriptionsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestCreateSubscriptionUnknownRefs(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := newUser(t, s, "alice", "0")

	_, err := s.CreateSubscription(ctx, models.Subscription{ID: uuid.New(), UserID: uuid.New(), Active: true})
	assert.ErrorIs(t, err, app_errors.ErrUserNotFound)

	_, err = s.CreateSubscription(ctx, models.Subscription{ID: uuid.New(), UserID: u.ID, CourseID: uuid.New(), Active: true})
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)

	_, err = s.SubscriptionByID(ctx, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrSubscriptionNotFound)
}

func TestAddStudentIsSetInsert(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := newUser(t, s, "alice", "0")
	c := newCourse(t, s, "Go")
	g, err := s.CreateGroup(ctx, models.Group{CourseID: c.ID, Name: models.GroupName(c.Title, 1), Number: 1})
	require.NoError(t, err)

	require.NoError(t, s.AddStudent(ctx, g.ID, u.ID))
	require.NoError(t, s.AddStudent(ctx, g.ID, u.ID))

	loads, err := s.GroupLoads(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, loads, 1)
	assert.Equal(t, 1, loads[0].Students)

	n, err := s.CountCourseStudents(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, s.AddStudent(ctx, uuid.New(), u.ID), app_errors.ErrGroupNotFound)
	assert.ErrorIs(t, s.AddStudent(ctx, g.ID, uuid.New()), app_errors.ErrUserNotFound)
}

func TestGroupLoadsOrderedByNumber(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCourse(t, s, "Go")
	for _, n := range []int{3, 1, 2} {
		_, err := s.CreateGroup(ctx, models.Group{CourseID: c.ID, Name: models.GroupName(c.Title, n), Number: n})
		require.NoError(t, err)
	}

	loads, err := s.GroupLoads(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, loads, 3)
	for i, l := range loads {
		assert.Equal(t, i+1, l.Number)
	}

	_, err = s.CreateGroup(ctx, models.Group{CourseID: uuid.New(), Number: 1})
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestCourseSearch(t *testing.T) {
	ctx := context.Background()
	s := New()
	newCourse(t, s, "Go Concurrency")
	newCourse(t, s, "Python Basics")
	search := NewCourseSearch(s)

	ids, err := search.Search(ctx, "go", 10)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	n, err := search.Count(ctx, "AUTHOR")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ids, err = search.Search(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}
