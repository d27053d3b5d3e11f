package session

import (
	"time"

	"proximity-pay/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock clock.Clock
	TTL   time.Duration
	EIDs  EIDGenerator
}

func NewFactory(clock clock.Clock, ttl time.Duration, eids EIDGenerator) *Factory {
	return &Factory{
		Clock: clock,
		TTL:   ttl,
		EIDs:  eids,
	}
}

// CreateSession builds a new advertising session together with its first
// broadcast binding.
func (f *Factory) CreateSession(payeeID uuid.UUID, amountCents int64, splitMode SplitMode, maxPayers int) (*Session, Binding, error) {
	now := f.Clock.Now()

	s, err := NewSession(payeeID, amountCents, splitMode, maxPayers, now, f.TTL)
	if err != nil {
		return nil, Binding{}, err
	}

	eid, err := f.EIDs.NewEID()
	if err != nil {
		return nil, Binding{}, err
	}

	return s, Binding{EID: eid, SessionID: s.ID(), RotatedAt: now}, nil
}
