package queries

import (
	"context"

	"proximity-pay/internal/domain/session"
	"proximity-pay/internal/domain/user"
	"proximity-pay/internal/infra"
	"proximity-pay/internal/pkg/clock"
	"proximity-pay/internal/pkg/errs"
)

type SessionReadStore interface {
	FindLatestByEID(ctx context.Context, eid string) (*SessionResolutionRow, error)
}

type SessionQueries interface {
	Resolve(ctx context.Context, eid string) (*ResolvedSessionView, error)
}

type sessionQueriesImpl struct {
	readStore SessionReadStore
	clock     clock.Clock
}

func NewSessionQueries(readStore SessionReadStore, clk clock.Clock) SessionQueries {
	return &sessionQueriesImpl{
		readStore: readStore,
		clock:     clk,
	}
}

// Resolve looks up the session currently bound to eid. It needs no caller
// identity: anyone in radio range already knows the eid.
func (q *sessionQueriesImpl) Resolve(ctx context.Context, eid string) (*ResolvedSessionView, error) {
	parsed, err := session.ParseEID(eid)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrNotFound)
	}

	row, err := q.readStore.FindLatestByEID(ctx, parsed.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}

	if q.clock.Now().After(row.ExpiresAt) {
		return nil, errs.Mark(errs.Newf("session %s expired at %s", row.SessionID, row.ExpiresAt), errs.ErrGone)
	}

	return &ResolvedSessionView{
		SessionID:        row.SessionID,
		AmountCents:      row.AmountCents,
		PayeeDisplayName: user.DisplayName(row.PayeeEmail),
		ExpiresAt:        row.ExpiresAt,
	}, nil
}
