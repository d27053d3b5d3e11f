package shared

import (
	"context"
	"time"

	"proximity-pay/internal/domain/session"
	"proximity-pay/internal/domain/wallet"
	sqlc "proximity-pay/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Sessions() SessionRepository
	Wallets() WalletRepository
	Ledger() LedgerRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
	DB() sqlc.DBTX
}

type CommandReads interface {
	UserByEmail(ctx context.Context, email string) (*UserSnapshot, error)
}

type SessionRepository interface {
	Create(ctx context.Context, tx sqlc.DBTX, s *session.Session) error
	BindEID(ctx context.Context, tx sqlc.DBTX, b session.Binding) error
	FindByID(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*session.Session, error)
	FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*session.Session, error)
	MarkLocked(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, now time.Time) (bool, error)
	MarkPaid(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, from []session.Status, now time.Time) (bool, error)
}

type WalletRepository interface {
	FindByUserID(ctx context.Context, tx sqlc.DBTX, userID uuid.UUID) (*wallet.Wallet, error)
	FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*wallet.Wallet, error)
	AddBalance(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, deltaCents int64, now time.Time) (int64, error)
}

type LedgerRepository interface {
	Append(ctx context.Context, tx sqlc.DBTX, entries ...wallet.Entry) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, tx sqlc.DBTX, rec IdempotencyRecord) (bool, error)
}
