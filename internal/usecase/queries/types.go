package queries

import (
	"time"

	"github.com/google/uuid"
)

// SessionResolutionRow is the latest binding for an EID joined with its
// session and payee.
type SessionResolutionRow struct {
	SessionID   uuid.UUID
	AmountCents int64
	Status      string
	ExpiresAt   time.Time
	PayeeEmail  string
}

// ResolvedSessionView is what a payer sees before paying.
type ResolvedSessionView struct {
	SessionID        uuid.UUID `json:"sid"`
	AmountCents      int64     `json:"amount_cents"`
	PayeeDisplayName string    `json:"payee_display_name"`
	ExpiresAt        time.Time `json:"exp_at"`
}

type WalletView struct {
	WalletID       uuid.UUID `json:"wallet_id"`
	UserID         uuid.UUID `json:"user_id"`
	AvailableCents int64     `json:"available_cents"`
}

type LedgerEntryView struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Direction   string    `json:"direction"`
	AmountCents int64     `json:"amount_cents"`
	RefType     string    `json:"ref_type"`
	RefID       string    `json:"ref_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type WalletOverview struct {
	Wallet WalletView         `json:"wallet"`
	Recent []*LedgerEntryView `json:"recent"`
}
