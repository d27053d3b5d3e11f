package readstore

import (
	"context"

	"proximity-pay/internal/infra"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/pkg/pgconv"
	"proximity-pay/internal/usecase/queries"

	"github.com/google/uuid"
)

type WalletViewQueries interface {
	GetWalletByUserID(ctx context.Context, db sqlc.DBTX, userID uuid.UUID) (sqlc.WalletAccounts, error)
	ListRecentLedgerEntries(ctx context.Context, db sqlc.DBTX, arg sqlc.ListRecentLedgerEntriesParams) ([]sqlc.LedgerEntries, error)
}

type WalletReadStore struct {
	queries WalletViewQueries
	db      sqlc.DBTX
}

func NewWalletReadStore(queries WalletViewQueries, db sqlc.DBTX) *WalletReadStore {
	return &WalletReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *WalletReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*queries.WalletView, error) {
	row, err := r.queries.GetWalletByUserID(ctx, r.db, userID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("wallet not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get wallet", err)
	}
	return &queries.WalletView{
		WalletID:       row.ID,
		UserID:         row.UserID,
		AvailableCents: row.AvailableCents,
	}, nil
}

func (r *WalletReadStore) ListRecentEntries(ctx context.Context, walletID uuid.UUID, limit int32) ([]*queries.LedgerEntryView, error) {
	rows, err := r.queries.ListRecentLedgerEntries(ctx, r.db, sqlc.ListRecentLedgerEntriesParams{
		WalletID: walletID,
		Limit:    limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ledger entries", err)
	}

	out := make([]*queries.LedgerEntryView, 0, len(rows))
	for _, row := range rows {
		out = append(out, &queries.LedgerEntryView{
			ID:          row.ID,
			Type:        row.Type,
			Direction:   row.Direction,
			AmountCents: row.AmountCents,
			RefType:     row.RefType,
			RefID:       row.RefID,
			CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		})
	}
	return out, nil
}
