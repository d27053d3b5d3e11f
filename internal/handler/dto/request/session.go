package request

import (
	"proximity-pay/internal/usecase/commands"

	"github.com/google/uuid"
)

// Amount positivity is a domain rule and is checked by the usecase so the
// response carries the same error as any other invalid amount.
type CreateSessionRequest struct {
	AmountCents *int64 `json:"amount_cents" binding:"required"`
	SplitMode   string `json:"split_mode" binding:"omitempty,oneof=single"`
	MaxPayers   int    `json:"max_payers" binding:"omitempty,min=1"`
}

func (r *CreateSessionRequest) ToParams(payeeID uuid.UUID) commands.CreateSessionParams {
	return commands.CreateSessionParams{
		PayeeID:     payeeID,
		AmountCents: *r.AmountCents,
		SplitMode:   r.SplitMode,
		MaxPayers:   r.MaxPayers,
	}
}

type ResolveSessionRequest struct {
	EID string `json:"eid" binding:"required"`
}
