//go:build unit || e2e

package builder

import (
	"time"

	"proximity-pay/internal/domain/wallet"
	sqlc "proximity-pay/internal/infra/sqlc/generated"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type WalletBuilder struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	AvailableCents int64
	UpdatedAt      time.Time
}

func NewWalletBuilder() *WalletBuilder {
	return &WalletBuilder{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		AvailableCents: 1000,
		UpdatedAt:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *WalletBuilder) WithUser(id uuid.UUID) *WalletBuilder {
	b.UserID = id
	return b
}

func (b *WalletBuilder) WithBalance(cents int64) *WalletBuilder {
	b.AvailableCents = cents
	return b
}

func (b *WalletBuilder) BuildDomain() *wallet.Wallet {
	return wallet.Reconstruct(b.ID, b.UserID, b.AvailableCents, b.UpdatedAt)
}

func (b *WalletBuilder) BuildInfra() sqlc.WalletAccounts {
	return sqlc.WalletAccounts{
		ID:             b.ID,
		UserID:         b.UserID,
		AvailableCents: b.AvailableCents,
		CreatedAt:      pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
		UpdatedAt:      pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
	}
}
