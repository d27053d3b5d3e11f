package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount     = errors.New("transfer amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameWallet        = errors.New("cannot transfer to the same wallet")
	ErrMissingReference  = errors.New("deposit reference is required")
)

type Wallet struct {
	id             uuid.UUID
	userID         uuid.UUID
	availableCents int64
	updatedAt      time.Time
}

func Reconstruct(id, userID uuid.UUID, availableCents int64, updatedAt time.Time) *Wallet {
	return &Wallet{
		id:             id,
		userID:         userID,
		availableCents: availableCents,
		updatedAt:      updatedAt,
	}
}

func (w *Wallet) ID() uuid.UUID         { return w.id }
func (w *Wallet) UserID() uuid.UUID     { return w.userID }
func (w *Wallet) AvailableCents() int64 { return w.availableCents }
func (w *Wallet) UpdatedAt() time.Time  { return w.updatedAt }

func (w *Wallet) CanDebit(amountCents int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	if w.availableCents < amountCents {
		return ErrInsufficientFunds
	}
	return nil
}

// Entry is one append-only ledger line.
type Entry struct {
	WalletID    uuid.UUID
	Type        EntryType
	Direction   Direction
	AmountCents int64
	RefType     RefType
	RefID       string
	CreatedAt   time.Time
}

func (e Entry) SignedAmount() int64 {
	return e.Direction.Sign() * e.AmountCents
}

// Balance sums entries with their direction applied. Every balance change
// is written as an entry, so it equals the stored balance.
func Balance(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.SignedAmount()
	}
	return total
}
