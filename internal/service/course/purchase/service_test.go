package purchase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/events"
	"CourseMarket/internal/models"
	"CourseMarket/internal/service/balance"
	"CourseMarket/internal/service/group"
	"CourseMarket/internal/service/subscription"
	"CourseMarket/internal/storage/memory"
	"CourseMarket/pkg/keylock"
	"CourseMarket/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	store      *memory.Store
	dispatcher *events.Dispatcher
	service    *PurchaseService
}

func newEnv() *env {
	log := logger.Discard()
	store := memory.New()
	locker := keylock.New()
	dispatcher := events.NewDispatcher()
	assigner := group.NewAssigner(log, store, store, locker)
	dispatcher.OnSubscriptionCreated(assigner.HandleSubscriptionCreated)
	registry := subscription.NewRegistry(log, store, dispatcher)
	ledger := balance.NewLedger(log, store)
	return &env{
		store:      store,
		dispatcher: dispatcher,
		service:    NewPurchaseService(log, store, ledger, registry, locker),
	}
}

func (e *env) user(t *testing.T, amount string) uuid.UUID {
	t.Helper()
	name := "user-" + uuid.NewString()
	u, err := e.store.CreateUser(context.Background(), models.User{Username: name, Email: name + "@example.com"},
		models.MustParseMoney(amount))
	require.NoError(t, err)
	return u.ID
}

func (e *env) course(t *testing.T, title, price string) uuid.UUID {
	t.Helper()
	c := &models.Course{Title: title, Author: "author", Price: models.MustParseMoney(price)}
	id, err := e.store.NewCourse(context.Background(), c)
	require.NoError(t, err)
	return id
}

func (e *env) balance(t *testing.T, userID uuid.UUID) models.Money {
	t.Helper()
	b, err := e.store.BalanceByUser(context.Background(), userID)
	require.NoError(t, err)
	return b.Amount
}

func TestPurchaseSuccess(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	userID := e.user(t, "150.00")
	courseID := e.course(t, "CourseTitle", "100.00")

	sub, err := e.service.Purchase(ctx, userID, courseID)
	require.NoError(t, err)
	assert.True(t, sub.Active)
	assert.Equal(t, userID, sub.UserID)
	assert.Equal(t, courseID, sub.CourseID)

	assert.Equal(t, models.MustParseMoney("50.00"), e.balance(t, userID))

	active, err := e.store.HasActiveSubscription(ctx, userID, courseID)
	require.NoError(t, err)
	assert.True(t, active)

	groups, err := e.store.StudentGroups(ctx, courseID, userID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "CourseTitle - Group 1", groups[0].Name)
}

func TestPurchaseRepeatIsRejected(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	userID := e.user(t, "500")
	courseID := e.course(t, "CourseTitle", "100")

	_, err := e.service.Purchase(ctx, userID, courseID)
	require.NoError(t, err)
	before := e.balance(t, userID)

	_, err = e.service.Purchase(ctx, userID, courseID)
	assert.ErrorIs(t, err, app_errors.ErrAlreadySubscribed)
	assert.Equal(t, before, e.balance(t, userID))

	subs, err := e.store.SubscriptionsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	userID := e.user(t, "99.99")
	courseID := e.course(t, "CourseTitle", "100")

	_, err := e.service.Purchase(ctx, userID, courseID)
	assert.ErrorIs(t, err, app_errors.ErrInsufficientFunds)
	assert.Equal(t, models.MustParseMoney("99.99"), e.balance(t, userID))

	active, err := e.store.HasActiveSubscription(ctx, userID, courseID)
	require.NoError(t, err)
	assert.False(t, active)

	n, err := e.store.CountCourseStudents(ctx, courseID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPurchaseExactBalance(t *testing.T) {
	e := newEnv()
	userID := e.user(t, "100")
	courseID := e.course(t, "CourseTitle", "100")

	_, err := e.service.Purchase(context.Background(), userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), e.balance(t, userID))
}

func TestPurchaseFreeCourse(t *testing.T) {
	e := newEnv()
	userID := e.user(t, "0")
	courseID := e.course(t, "Free", "0")

	_, err := e.service.Purchase(context.Background(), userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), e.balance(t, userID))
}

func TestPurchaseUnknownCourse(t *testing.T) {
	e := newEnv()
	userID := e.user(t, "100")

	_, err := e.service.Purchase(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
	assert.Equal(t, models.MustParseMoney("100"), e.balance(t, userID))
}

func TestPurchaseIntoFullGroupOpensNext(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	courseID := e.course(t, "CourseTitle", "10")
	for i := 0; i < models.GroupCapacity; i++ {
		_, err := e.service.Purchase(ctx, e.user(t, "10"), courseID)
		require.NoError(t, err)
	}

	userID := e.user(t, "10")
	_, err := e.service.Purchase(ctx, userID, courseID)
	require.NoError(t, err)

	groups, err := e.store.StudentGroups(ctx, courseID, userID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "CourseTitle - Group 2", groups[0].Name)

	students, err := e.store.GroupStudents(ctx, groups[0].ID)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestPurchaseConcurrentSameUser(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	userID := e.user(t, "1000")
	courseID := e.course(t, "CourseTitle", "100")

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.service.Purchase(ctx, userID, courseID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, app_errors.ErrAlreadySubscribed):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
	assert.Equal(t, models.MustParseMoney("900"), e.balance(t, userID))
}

func TestPurchaseAssignerFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	boom := errors.New("boom")
	e.dispatcher.OnSubscriptionCreated(func(context.Context, events.SubscriptionCreated) error { return boom })
	userID := e.user(t, "100")
	courseID := e.course(t, "CourseTitle", "100")

	_, err := e.service.Purchase(ctx, userID, courseID)
	assert.ErrorIs(t, err, boom)

	// the debit is not compensated and the subscription stays
	assert.Equal(t, models.Money(0), e.balance(t, userID))
	active, err := e.store.HasActiveSubscription(ctx, userID, courseID)
	require.NoError(t, err)
	assert.True(t, active)
}
