package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Every user owns exactly one wallet.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	isActive     bool
	createdAt    time.Time
}

func NewUser(email Email, passwordHash string) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		isActive:     true,
	}
}

func Reconstruct(id uuid.UUID, email Email, passwordHash string, isActive bool, createdAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		isActive:     isActive,
		createdAt:    createdAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) DisplayName() string  { return u.email.LocalPart() }
