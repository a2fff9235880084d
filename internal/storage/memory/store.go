// Package memory is an in-process implementation of every repository the
// services depend on. It backs tests and the "memory" storage mode.
package memory

import (
	"sync"

	"CourseMarket/internal/models"

	"github.com/google/uuid"
)

type subscriptionKey struct {
	userID   uuid.UUID
	courseID uuid.UUID
}

// Store keeps all tables behind one RWMutex, so every method is atomic with
// respect to the others.
type Store struct {
	mu sync.RWMutex

	users         map[uuid.UUID]*models.User
	balances      map[uuid.UUID]*models.Balance
	courses       map[uuid.UUID]*models.Course
	lessons       map[uuid.UUID]*models.Lesson
	groups        map[uuid.UUID]*models.Group
	members       map[uuid.UUID]map[uuid.UUID]struct{}
	subscriptions map[uuid.UUID]*models.Subscription
	active        map[subscriptionKey]uuid.UUID
	tokens        map[uuid.UUID][]models.RefreshToken
}

func New() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*models.User),
		balances:      make(map[uuid.UUID]*models.Balance),
		courses:       make(map[uuid.UUID]*models.Course),
		lessons:       make(map[uuid.UUID]*models.Lesson),
		groups:        make(map[uuid.UUID]*models.Group),
		members:       make(map[uuid.UUID]map[uuid.UUID]struct{}),
		subscriptions: make(map[uuid.UUID]*models.Subscription),
		active:        make(map[subscriptionKey]uuid.UUID),
		tokens:        make(map[uuid.UUID][]models.RefreshToken),
	}
}
