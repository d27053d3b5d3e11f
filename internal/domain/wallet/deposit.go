package wallet

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deposit brings money into a wallet from outside the ledger, such as an
// opening balance. It is recorded as a single DEPOSIT credit.
type Deposit struct {
	walletID    uuid.UUID
	amountCents int64
	refID       string
	at          time.Time
}

func NewDeposit(walletID uuid.UUID, amountCents int64, refID string, at time.Time) (*Deposit, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	refID = strings.TrimSpace(refID)
	if refID == "" {
		return nil, ErrMissingReference
	}
	return &Deposit{
		walletID:    walletID,
		amountCents: amountCents,
		refID:       refID,
		at:          at,
	}, nil
}

func (d *Deposit) WalletID() uuid.UUID { return d.walletID }
func (d *Deposit) AmountCents() int64  { return d.amountCents }
func (d *Deposit) RefID() string       { return d.refID }

func (d *Deposit) Entry() Entry {
	return Entry{
		WalletID:    d.walletID,
		Type:        EntryTypeDeposit,
		Direction:   DirectionCredit,
		AmountCents: d.amountCents,
		RefType:     RefTypeDeposit,
		RefID:       d.refID,
		CreatedAt:   d.at,
	}
}
