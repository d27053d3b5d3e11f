// sqlc v1.29.0

package sqlc

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	AddWalletBalance(ctx context.Context, db DBTX, arg AddWalletBalanceParams) (int64, error)
	CreatePaymentSession(ctx context.Context, db DBTX, arg CreatePaymentSessionParams) (PaymentSessions, error)
	CreateSessionEid(ctx context.Context, db DBTX, arg CreateSessionEidParams) error
	CreateUser(ctx context.Context, db DBTX, arg CreateUserParams) (Users, error)
	CreateWallet(ctx context.Context, db DBTX, arg CreateWalletParams) (WalletAccounts, error)
	GetIdempotencyKey(ctx context.Context, db DBTX, key string) (IdempotencyKeys, error)
	GetPaymentSessionByID(ctx context.Context, db DBTX, id uuid.UUID) (PaymentSessions, error)
	GetPaymentSessionByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (PaymentSessions, error)
	GetUserByEmail(ctx context.Context, db DBTX, email string) (Users, error)
	GetWalletByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (WalletAccounts, error)
	GetWalletByUserID(ctx context.Context, db DBTX, userID uuid.UUID) (WalletAccounts, error)
	InsertLedgerEntry(ctx context.Context, db DBTX, arg InsertLedgerEntryParams) error
	ListLedgerEntriesByRef(ctx context.Context, db DBTX, arg ListLedgerEntriesByRefParams) ([]LedgerEntries, error)
	ListRecentLedgerEntries(ctx context.Context, db DBTX, arg ListRecentLedgerEntriesParams) ([]LedgerEntries, error)
	ResolveSessionByEid(ctx context.Context, db DBTX, eid string) (ResolveSessionByEidRow, error)
	TryInsertIdempotencyKey(ctx context.Context, db DBTX, arg TryInsertIdempotencyKeyParams) (int64, error)
}

var _ Querier = (*Queries)(nil)
