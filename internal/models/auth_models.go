package models

import (
	"strings"
	"time"
)

// User represents an account that owns client records.
type User struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Surname          string    `json:"surname" db:"surname"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	MobilePhone      *string   `json:"mobilePhone,omitempty" db:"mobile_phone"`
	CreationDate     time.Time `json:"creationDate" db:"creation_date"`
	ModificationDate time.Time `json:"modificationDate" db:"modification_date"`
}

// Touch refreshes the modification timestamp; every mutation of a user goes through it.
func (u *User) Touch(now time.Time) {
	u.ModificationDate = now
}

// Principal is the authenticated identity of a request, taken from the token subject.
// It is passed explicitly into every service call that needs an owner.
type Principal struct {
	Email string
}

// NewPrincipal builds a Principal from a token subject.
func NewPrincipal(email string) Principal {
	return Principal{Email: strings.TrimSpace(email)}
}

// IsZero reports whether the principal carries no identity.
func (p Principal) IsZero() bool {
	return p.Email == ""
}
