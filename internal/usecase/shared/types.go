package shared

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyRecord marks a caller-supplied key as consumed by one request.
type IdempotencyRecord struct {
	Key       string
	UserID    uuid.UUID
	Route     string
	Ref       string
	CreatedAt time.Time
}

// UserSnapshot carries what login needs; the hash never leaves the usecase
// layer.
type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsActive     bool
}
