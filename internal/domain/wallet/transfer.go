package wallet

import (
	"time"

	"github.com/google/uuid"
)

// Transfer moves AmountCents between two wallets and is recorded as exactly
// one debit and one credit sharing the same reference.
type Transfer struct {
	fromWalletID uuid.UUID
	toWalletID   uuid.UUID
	amountCents  int64
	refType      RefType
	refID        string
	at           time.Time
}

func NewTransfer(from, to uuid.UUID, amountCents int64, refType RefType, refID string, at time.Time) (*Transfer, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if from == to {
		return nil, ErrSameWallet
	}
	return &Transfer{
		fromWalletID: from,
		toWalletID:   to,
		amountCents:  amountCents,
		refType:      refType,
		refID:        refID,
		at:           at,
	}, nil
}

func (t *Transfer) FromWalletID() uuid.UUID { return t.fromWalletID }
func (t *Transfer) ToWalletID() uuid.UUID   { return t.toWalletID }
func (t *Transfer) AmountCents() int64      { return t.amountCents }
func (t *Transfer) RefType() RefType        { return t.refType }
func (t *Transfer) RefID() string           { return t.refID }
func (t *Transfer) At() time.Time           { return t.at }

func (t *Transfer) Entries() (debit Entry, credit Entry) {
	debit = Entry{
		WalletID:    t.fromWalletID,
		Type:        EntryTypeSendP2P,
		Direction:   DirectionDebit,
		AmountCents: t.amountCents,
		RefType:     t.refType,
		RefID:       t.refID,
		CreatedAt:   t.at,
	}
	credit = Entry{
		WalletID:    t.toWalletID,
		Type:        EntryTypeReceiveP2P,
		Direction:   DirectionCredit,
		AmountCents: t.amountCents,
		RefType:     t.refType,
		RefID:       t.refID,
		CreatedAt:   t.at,
	}
	return debit, credit
}
