//go:build unit

package queries_test

import (
	"context"
	"testing"

	"proximity-pay/internal/infra"
	"proximity-pay/internal/pkg/errs"
	"proximity-pay/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWalletReadStore struct {
	mock.Mock
}

func (m *MockWalletReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*queries.WalletView, error) {
	args := m.Called(ctx, userID)
	if w := args.Get(0); w != nil {
		return w.(*queries.WalletView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletReadStore) ListRecentEntries(ctx context.Context, walletID uuid.UUID, limit int32) ([]*queries.LedgerEntryView, error) {
	args := m.Called(ctx, walletID, limit)
	if e := args.Get(0); e != nil {
		return e.([]*queries.LedgerEntryView), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestWalletQueries_GetMine(t *testing.T) {
	userID := uuid.New()
	view := &queries.WalletView{WalletID: uuid.New(), UserID: userID, AvailableCents: 500}

	t.Run("success: wallet with recent entries", func(t *testing.T) {
		store := new(MockWalletReadStore)
		entries := []*queries.LedgerEntryView{{ID: 2, Direction: "DEBIT", AmountCents: 500}}
		store.On("FindByUserID", mock.Anything, userID).Return(view, nil).Once()
		store.On("ListRecentEntries", mock.Anything, view.WalletID, int32(queries.RecentEntriesLimit)).Return(entries, nil).Once()

		got, err := queries.NewWalletQueries(store).GetMine(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, *view, got.Wallet)
		assert.Equal(t, entries, got.Recent)
		store.AssertExpectations(t)
	})

	t.Run("error: no wallet", func(t *testing.T) {
		store := new(MockWalletReadStore)
		store.On("FindByUserID", mock.Anything, userID).
			Return(nil, infra.WrapRepoErr("wallet not found", nil, infra.KindNotFound)).Once()

		_, err := queries.NewWalletQueries(store).GetMine(context.Background(), userID)
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("error: entries unavailable", func(t *testing.T) {
		store := new(MockWalletReadStore)
		store.On("FindByUserID", mock.Anything, userID).Return(view, nil).Once()
		store.On("ListRecentEntries", mock.Anything, view.WalletID, mock.Anything).Return(nil, assert.AnError).Once()

		_, err := queries.NewWalletQueries(store).GetMine(context.Background(), userID)
		assert.True(t, errs.Is(err, errs.ErrStorageFailure))
	})
}
