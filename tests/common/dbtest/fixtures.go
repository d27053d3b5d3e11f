//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"proximity-pay/internal/domain/wallet"
	"proximity-pay/internal/infra/repository"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestUserPassword is the plain password of every user created by
// CreateTestUser.
const TestUserPassword = "password123"

var (
	hashOnce   sync.Once
	hashedPass string
)

func testPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.HashPasswordWithCost(TestUserPassword, password.MinCost)
		if err == nil {
			hashedPass = h
		}
	})
	require.NotEmpty(t, hashedPass, "failed to hash test password")
	return hashedPass
}

type TestUser struct {
	UserID   uuid.UUID
	WalletID uuid.UUID
	Email    string
}

// OpeningBalanceRef is the deposit reference used when funding test users.
const OpeningBalanceRef = "opening-balance"

var queries = sqlc.New()

// CreateTestUser inserts an active user with a wallet. A positive
// balanceCents is booked as a DEPOSIT so the ledger matches the balance.
func CreateTestUser(t *testing.T, db DBLike, email string, balanceCents int64) TestUser {
	t.Helper()

	ctx := context.Background()
	user, err := queries.CreateUser(ctx, db, sqlc.CreateUserParams{
		Email:        email,
		PasswordHash: testPasswordHash(t),
	})
	require.NoError(t, err)

	w, err := queries.CreateWallet(ctx, db, sqlc.CreateWalletParams{UserID: user.ID})
	require.NoError(t, err)

	u := TestUser{UserID: user.ID, WalletID: w.ID, Email: user.Email}
	if balanceCents > 0 {
		FundWallet(t, db, u.WalletID, balanceCents, OpeningBalanceRef)
	}
	return u
}

// FundWallet credits a wallet through the same repositories the deposit
// usecase uses.
func FundWallet(t *testing.T, db DBLike, walletID uuid.UUID, cents int64, refID string) {
	t.Helper()

	ctx := context.Background()
	now := time.Now()
	deposit, err := wallet.NewDeposit(walletID, cents, refID, now)
	require.NoError(t, err)

	_, err = repository.NewWalletRepository(queries).AddBalance(ctx, db, deposit.WalletID(), deposit.AmountCents(), now)
	require.NoError(t, err)
	require.NoError(t, repository.NewLedgerRepository(queries).Append(ctx, db, deposit.Entry()))
}

func WalletBalance(t *testing.T, db DBLike, walletID uuid.UUID) int64 {
	t.Helper()

	var cents int64
	err := db.QueryRow(context.Background(), "SELECT available_cents FROM wallet_accounts WHERE id = $1", walletID).Scan(&cents)
	require.NoError(t, err)
	return cents
}

// LedgerSum returns the signed sum of a wallet's entries.
func LedgerSum(t *testing.T, db DBLike, walletID uuid.UUID) int64 {
	t.Helper()

	var sum int64
	err := db.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(CASE direction WHEN 'CREDIT' THEN amount_cents ELSE -amount_cents END), 0)
		FROM ledger_entries WHERE wallet_id = $1`, walletID).Scan(&sum)
	require.NoError(t, err)
	return sum
}

// RequireLedgerMatchesBalance fails unless every wallet's ledger sum equals
// its stored balance.
func RequireLedgerMatchesBalance(t *testing.T, db DBLike, walletIDs ...uuid.UUID) {
	t.Helper()
	for _, id := range walletIDs {
		require.Equal(t, WalletBalance(t, db, id), LedgerSum(t, db, id), "wallet %s", id)
	}
}

func SessionEntries(t *testing.T, db DBLike, sessionID uuid.UUID) []wallet.Entry {
	t.Helper()

	entries, err := repository.NewLedgerRepository(queries).FindByRef(context.Background(), db, wallet.RefTypePaymentSession, sessionID.String())
	require.NoError(t, err)
	return entries
}

// IdempotencyRef returns the ref recorded for key, failing if the key was
// never committed.
func IdempotencyRef(t *testing.T, db DBLike, key string) string {
	t.Helper()

	rec, err := queries.GetIdempotencyKey(context.Background(), db, key)
	require.NoError(t, err)
	return rec.Ref
}

func SessionStatus(t *testing.T, db DBLike, sessionID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM payment_sessions WHERE id = $1", sessionID).Scan(&status)
	require.NoError(t, err)
	return status
}

// ExpireSession moves exp_at into the past so the session reads as expired.
func ExpireSession(t *testing.T, db DBLike, sessionID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE payment_sessions SET exp_at = now() - interval '1 second' WHERE id = $1", sessionID)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
