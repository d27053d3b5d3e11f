package repository

import (
	"context"

	"proximity-pay/internal/domain/wallet"
	"proximity-pay/internal/infra"
	"proximity-pay/internal/infra/repository/converter"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
)

type LedgerWriteQueries interface {
	InsertLedgerEntry(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertLedgerEntryParams) error
	ListLedgerEntriesByRef(ctx context.Context, db sqlc.DBTX, arg sqlc.ListLedgerEntriesByRefParams) ([]sqlc.LedgerEntries, error)
}

type LedgerRepository struct {
	queries LedgerWriteQueries
}

func NewLedgerRepository(queries LedgerWriteQueries) *LedgerRepository {
	return &LedgerRepository{queries: queries}
}

// Append writes entries in order. Entries are never updated or deleted.
func (r *LedgerRepository) Append(ctx context.Context, tx sqlc.DBTX, entries ...wallet.Entry) error {
	for _, e := range entries {
		if err := r.queries.InsertLedgerEntry(ctx, tx, converter.EntryToInsertParams(e)); err != nil {
			return infra.WrapRepoErr("failed to append ledger entry", err)
		}
	}
	return nil
}

// FindByRef returns the entries written for one reference in insertion order.
func (r *LedgerRepository) FindByRef(ctx context.Context, tx sqlc.DBTX, refType wallet.RefType, refID string) ([]wallet.Entry, error) {
	rows, err := r.queries.ListLedgerEntriesByRef(ctx, tx, sqlc.ListLedgerEntriesByRefParams{
		RefType: refType.String(),
		RefID:   refID,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ledger entries by ref", err)
	}
	entries := make([]wallet.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, converter.EntryFromInfra(row))
	}
	return entries, nil
}
