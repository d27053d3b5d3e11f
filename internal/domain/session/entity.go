package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a pending payment advertised by a payee. Amount and payee never
// change after creation; sessions are never deleted.
type Session struct {
	id          uuid.UUID
	payeeID     uuid.UUID
	amountCents int64
	splitMode   SplitMode
	maxPayers   int
	status      Status
	expiresAt   time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// Binding maps a broadcast identifier to a session.
type Binding struct {
	EID       EID
	SessionID uuid.UUID
	RotatedAt time.Time
}

func NewSession(payeeID uuid.UUID, amountCents int64, splitMode SplitMode, maxPayers int, now time.Time, ttl time.Duration) (*Session, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if splitMode == "" {
		splitMode = SplitModeSingle
	}
	if maxPayers == 0 {
		maxPayers = 1
	}
	if maxPayers < 1 {
		return nil, ErrInvalidMaxPayers
	}

	return &Session{
		id:          uuid.New(),
		payeeID:     payeeID,
		amountCents: amountCents,
		splitMode:   splitMode,
		maxPayers:   maxPayers,
		status:      StatusAdvertising,
		expiresAt:   now.Add(ttl),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a session loaded from storage.
func Reconstruct(
	id, payeeID uuid.UUID,
	amountCents int64,
	splitMode SplitMode,
	maxPayers int,
	status Status,
	expiresAt, createdAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:          id,
		payeeID:     payeeID,
		amountCents: amountCents,
		splitMode:   splitMode,
		maxPayers:   maxPayers,
		status:      status,
		expiresAt:   expiresAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *Session) ID() uuid.UUID        { return s.id }
func (s *Session) PayeeID() uuid.UUID   { return s.payeeID }
func (s *Session) AmountCents() int64   { return s.amountCents }
func (s *Session) SplitMode() SplitMode { return s.splitMode }
func (s *Session) MaxPayers() int       { return s.maxPayers }
func (s *Session) Status() Status       { return s.status }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// IsExpired is true strictly after expiresAt.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.expiresAt)
}

// StatusAt returns the status as observed at now, deriving EXPIRED for
// unpaid sessions past their deadline.
func (s *Session) StatusAt(now time.Time) Status {
	if s.status != StatusPaid && s.IsExpired(now) {
		return StatusExpired
	}
	return s.status
}

func (s *Session) CheckLockable(now time.Time) error {
	if s.IsExpired(now) {
		return ErrExpired
	}
	if s.status != StatusAdvertising {
		return ErrNotAdvertising
	}
	return nil
}

// CheckSettleable validates a settle attempt. Checks run in a fixed order so
// callers see the same error for the same state: expiry, status, then payer.
func (s *Session) CheckSettleable(now time.Time, payerID uuid.UUID, requireLock bool) error {
	if s.IsExpired(now) {
		return ErrExpired
	}
	switch s.status {
	case StatusPaid:
		return ErrAlreadyPaid
	case StatusAdvertising:
		if requireLock {
			return ErrLockRequired
		}
	case StatusLocked:
	default:
		return ErrInvalidStatus
	}
	if payerID == s.payeeID {
		return ErrSelfPayment
	}
	return nil
}

// SettleableFrom lists the stored statuses settle may transition out of.
func SettleableFrom(requireLock bool) []Status {
	if requireLock {
		return []Status{StatusLocked}
	}
	return []Status{StatusAdvertising, StatusLocked}
}
