package queries

import (
	"context"

	"proximity-pay/internal/infra"
	"proximity-pay/internal/pkg/errs"

	"github.com/google/uuid"
)

// RecentEntriesLimit is how many ledger entries the wallet overview shows.
const RecentEntriesLimit = 20

type WalletReadStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*WalletView, error)
	ListRecentEntries(ctx context.Context, walletID uuid.UUID, limit int32) ([]*LedgerEntryView, error)
}

type WalletQueries interface {
	GetMine(ctx context.Context, userID uuid.UUID) (*WalletOverview, error)
}

type walletQueriesImpl struct {
	readStore WalletReadStore
}

func NewWalletQueries(readStore WalletReadStore) WalletQueries {
	return &walletQueriesImpl{readStore: readStore}
}

func (q *walletQueriesImpl) GetMine(ctx context.Context, userID uuid.UUID) (*WalletOverview, error) {
	w, err := q.readStore.FindByUserID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}

	entries, err := q.readStore.ListRecentEntries(ctx, w.WalletID, RecentEntriesLimit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}

	return &WalletOverview{Wallet: *w, Recent: entries}, nil
}
