//go:build unit || e2e

package builder

import (
	"time"

	"proximity-pay/internal/domain/session"
	sqlc "proximity-pay/internal/infra/sqlc/generated"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SessionBuilder struct {
	ID          uuid.UUID
	PayeeID     uuid.UUID
	AmountCents int64
	SplitMode   session.SplitMode
	MaxPayers   int
	Status      session.Status
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func NewSessionBuilder() *SessionBuilder {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return &SessionBuilder{
		ID:          uuid.New(),
		PayeeID:     uuid.New(),
		AmountCents: 500,
		SplitMode:   session.SplitModeSingle,
		MaxPayers:   1,
		Status:      session.StatusAdvertising,
		CreatedAt:   now,
		ExpiresAt:   now.Add(300 * time.Second),
	}
}

func (b *SessionBuilder) With(mutate func(*SessionBuilder)) *SessionBuilder {
	mutate(b)
	return b
}

func (b *SessionBuilder) WithID(id uuid.UUID) *SessionBuilder {
	b.ID = id
	return b
}

func (b *SessionBuilder) WithPayee(id uuid.UUID) *SessionBuilder {
	b.PayeeID = id
	return b
}

func (b *SessionBuilder) WithAmount(cents int64) *SessionBuilder {
	b.AmountCents = cents
	return b
}

func (b *SessionBuilder) WithStatus(s session.Status) *SessionBuilder {
	b.Status = s
	return b
}

func (b *SessionBuilder) ExpiringAt(t time.Time) *SessionBuilder {
	b.ExpiresAt = t
	return b
}

func (b *SessionBuilder) BuildDomain() *session.Session {
	return session.Reconstruct(
		b.ID, b.PayeeID,
		b.AmountCents,
		b.SplitMode,
		b.MaxPayers,
		b.Status,
		b.ExpiresAt, b.CreatedAt, b.CreatedAt,
	)
}

func (b *SessionBuilder) BuildInfra() sqlc.PaymentSessions {
	return sqlc.PaymentSessions{
		ID:          b.ID,
		PayeeID:     b.PayeeID,
		AmountCents: b.AmountCents,
		SplitMode:   b.SplitMode.String(),
		MaxPayers:   int32(b.MaxPayers), // #nosec G115 -- small positive test value
		Status:      b.Status.String(),
		ExpAt:       pgtype.Timestamptz{Time: b.ExpiresAt, Valid: true},
		CreatedAt:   pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:   pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
	}
}
