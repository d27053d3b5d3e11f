package converter

import (
	"fmt"
	"math"

	"proximity-pay/internal/domain/session"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/pkg/pgconv"
)

func SessionToCreateParams(s *session.Session) sqlc.CreatePaymentSessionParams {
	maxPayers := s.MaxPayers()
	if maxPayers > math.MaxInt32 {
		panic(fmt.Sprintf("max payers out of int32 range: %d", maxPayers))
	}

	return sqlc.CreatePaymentSessionParams{
		ID:          s.ID(),
		PayeeID:     s.PayeeID(),
		AmountCents: s.AmountCents(),
		SplitMode:   s.SplitMode().String(),
		MaxPayers:   int32(maxPayers),
		Status:      s.Status().String(),
		ExpAt:       pgconv.TimeToPgtype(s.ExpiresAt()),
		CreatedAt:   pgconv.TimeToPgtype(s.CreatedAt()),
	}
}

func BindingToCreateParams(b session.Binding) sqlc.CreateSessionEidParams {
	return sqlc.CreateSessionEidParams{
		SessionID: b.SessionID,
		Eid:       b.EID.String(),
		RotatedAt: pgconv.TimeToPgtype(b.RotatedAt),
	}
}

func SessionFromInfra(row sqlc.PaymentSessions) (*session.Session, error) {
	status, err := session.ParseStatus(row.Status)
	if err != nil {
		return nil, err
	}
	return session.Reconstruct(
		row.ID,
		row.PayeeID,
		row.AmountCents,
		session.SplitMode(row.SplitMode),
		int(row.MaxPayers),
		status,
		pgconv.TimeFromPgtype(row.ExpAt),
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

func StatusesToInfra(statuses []session.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
