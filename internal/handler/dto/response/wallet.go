package response

import (
	"time"

	"proximity-pay/internal/usecase/queries"

	"github.com/google/uuid"
)

type LedgerEntryResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Direction   string    `json:"direction"`
	AmountCents int64     `json:"amount_cents"`
	RefType     string    `json:"ref_type"`
	RefID       string    `json:"ref_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type WalletResponse struct {
	WalletID       uuid.UUID             `json:"wallet_id"`
	AvailableCents int64                 `json:"available_cents"`
	Recent         []LedgerEntryResponse `json:"recent"`
}

func FromWalletOverview(o *queries.WalletOverview) WalletResponse {
	recent := make([]LedgerEntryResponse, 0, len(o.Recent))
	for _, e := range o.Recent {
		recent = append(recent, LedgerEntryResponse{
			ID:          e.ID,
			Type:        e.Type,
			Direction:   e.Direction,
			AmountCents: e.AmountCents,
			RefType:     e.RefType,
			RefID:       e.RefID,
			CreatedAt:   e.CreatedAt,
		})
	}
	return WalletResponse{
		WalletID:       o.Wallet.WalletID,
		AvailableCents: o.Wallet.AvailableCents,
		Recent:         recent,
	}
}
