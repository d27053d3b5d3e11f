package readstore

import (
	"context"

	"proximity-pay/internal/infra"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/pkg/pgconv"
	"proximity-pay/internal/usecase/queries"
)

type SessionViewQueries interface {
	ResolveSessionByEid(ctx context.Context, db sqlc.DBTX, eid string) (sqlc.ResolveSessionByEidRow, error)
}

type SessionReadStore struct {
	queries SessionViewQueries
	db      sqlc.DBTX
}

func NewSessionReadStore(queries SessionViewQueries, db sqlc.DBTX) *SessionReadStore {
	return &SessionReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *SessionReadStore) FindLatestByEID(ctx context.Context, eid string) (*queries.SessionResolutionRow, error) {
	row, err := r.queries.ResolveSessionByEid(ctx, r.db, eid)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("no session bound to eid", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to resolve eid", err)
	}
	return &queries.SessionResolutionRow{
		SessionID:   row.ID,
		AmountCents: row.AmountCents,
		Status:      row.Status,
		ExpiresAt:   pgconv.TimeFromPgtype(row.ExpAt),
		PayeeEmail:  row.PayeeEmail,
	}, nil
}
