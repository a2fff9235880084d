package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ClientRole = "client"
	AdminRole  = "admin"
)

type User struct {
	ID       uuid.UUID
	Username string
	Password string
	Email    string
	Roles    []string
}

// KnownRole reports whether role is one the marketplace grants.
func KnownRole(role string) bool {
	return role == ClientRole || role == AdminRole
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(AdminRole)
}

// DefaultInitialBalance is credited to every new user.
var DefaultInitialBalance = MustParseMoney("1000.00")

type Balance struct {
	UserID    uuid.UUID `json:"user_id"`
	Amount    Money     `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clamp forces a negative amount to zero. Every write of a balance goes through it.
func (b *Balance) Clamp() {
	if b.Amount < 0 {
		b.Amount = 0
	}
}
