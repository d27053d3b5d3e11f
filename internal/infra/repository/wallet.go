package repository

import (
	"context"
	"time"

	"proximity-pay/internal/domain/wallet"
	"proximity-pay/internal/infra"
	"proximity-pay/internal/infra/repository/converter"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type WalletWriteQueries interface {
	GetWalletByUserID(ctx context.Context, db sqlc.DBTX, userID uuid.UUID) (sqlc.WalletAccounts, error)
	GetWalletByIDForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.WalletAccounts, error)
	AddWalletBalance(ctx context.Context, db sqlc.DBTX, arg sqlc.AddWalletBalanceParams) (int64, error)
}

type WalletRepository struct {
	queries WalletWriteQueries
}

func NewWalletRepository(queries WalletWriteQueries) *WalletRepository {
	return &WalletRepository{queries: queries}
}

func (r *WalletRepository) FindByUserID(ctx context.Context, tx sqlc.DBTX, userID uuid.UUID) (*wallet.Wallet, error) {
	row, err := r.queries.GetWalletByUserID(ctx, tx, userID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("wallet not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get wallet by user", err)
	}
	return converter.WalletFromInfra(row), nil
}

func (r *WalletRepository) FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*wallet.Wallet, error) {
	row, err := r.queries.GetWalletByIDForUpdate(ctx, tx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("wallet not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock wallet", err)
	}
	return converter.WalletFromInfra(row), nil
}

// AddBalance applies delta and returns the resulting balance. A negative
// result is rejected by the table's check constraint.
func (r *WalletRepository) AddBalance(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, deltaCents int64, now time.Time) (int64, error) {
	balance, err := r.queries.AddWalletBalance(ctx, tx, sqlc.AddWalletBalanceParams{
		DeltaCents: deltaCents,
		Now:        pgconv.TimeToPgtype(now),
		ID:         id,
	})
	if err != nil {
		switch {
		case pgconv.IsNoRows(err):
			return 0, infra.WrapRepoErr("wallet not found", err, infra.KindNotFound)
		case pgconv.IsCheckViolation(err):
			return 0, infra.WrapRepoErr("wallet balance would go negative", err, infra.KindCheckViolated)
		}
		return 0, infra.WrapRepoErr("failed to update wallet balance", err)
	}
	return balance, nil
}
