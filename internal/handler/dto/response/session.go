package response

import (
	"time"

	"proximity-pay/internal/usecase/commands"
	"proximity-pay/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	SID   uuid.UUID `json:"sid"`
	EID   string    `json:"eid"`
	ExpAt time.Time `json:"exp_at"`
}

func FromCreateSessionResult(r *commands.CreateSessionResult) CreateSessionResponse {
	return CreateSessionResponse{
		SID:   r.SessionID,
		EID:   r.EID.String(),
		ExpAt: r.ExpiresAt,
	}
}

type PayeeDisplay struct {
	Name string `json:"name"`
}

type ResolveSessionResponse struct {
	SID          uuid.UUID    `json:"sid"`
	AmountCents  int64        `json:"amount_cents"`
	PayeeDisplay PayeeDisplay `json:"payee_display"`
	ExpAt        time.Time    `json:"exp_at"`
}

func FromResolvedSessionView(v *queries.ResolvedSessionView) ResolveSessionResponse {
	return ResolveSessionResponse{
		SID:          v.SessionID,
		AmountCents:  v.AmountCents,
		PayeeDisplay: PayeeDisplay{Name: v.PayeeDisplayName},
		ExpAt:        v.ExpiresAt,
	}
}

type LockSessionResponse struct {
	OK bool `json:"ok"`
}

type SettleSessionResponse struct {
	OK              bool  `json:"ok"`
	AmountCents     int64 `json:"amount_cents"`
	NewBalanceCents int64 `json:"new_balance_cents"`
}

func FromSettleSessionResult(r *commands.SettleSessionResult) SettleSessionResponse {
	return SettleSessionResponse{
		OK:              true,
		AmountCents:     r.AmountCents,
		NewBalanceCents: r.NewBalanceCents,
	}
}
