// sqlc v1.29.0

package sqlc

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyKeys struct {
	Key       string             `json:"key"`
	UserID    uuid.UUID          `json:"user_id"`
	Route     string             `json:"route"`
	Ref       string             `json:"ref"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type LedgerEntries struct {
	ID          int64              `json:"id"`
	WalletID    uuid.UUID          `json:"wallet_id"`
	Type        string             `json:"type"`
	Direction   string             `json:"direction"`
	AmountCents int64              `json:"amount_cents"`
	RefType     string             `json:"ref_type"`
	RefID       string             `json:"ref_id"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type PaymentSessions struct {
	ID          uuid.UUID          `json:"id"`
	PayeeID     uuid.UUID          `json:"payee_id"`
	AmountCents int64              `json:"amount_cents"`
	SplitMode   string             `json:"split_mode"`
	MaxPayers   int32              `json:"max_payers"`
	Status      string             `json:"status"`
	ExpAt       pgtype.Timestamptz `json:"exp_at"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type SessionEids struct {
	ID        int64              `json:"id"`
	SessionID uuid.UUID          `json:"session_id"`
	Eid       string             `json:"eid"`
	RotatedAt pgtype.Timestamptz `json:"rotated_at"`
}

type Users struct {
	ID           uuid.UUID          `json:"id"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"password_hash"`
	IsActive     bool               `json:"is_active"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

type WalletAccounts struct {
	ID             uuid.UUID          `json:"id"`
	UserID         uuid.UUID          `json:"user_id"`
	AvailableCents int64              `json:"available_cents"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}
