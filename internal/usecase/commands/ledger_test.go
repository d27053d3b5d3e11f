//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"proximity-pay/internal/domain/wallet"
	"proximity-pay/internal/pkg/clock"
	"proximity-pay/internal/pkg/errs"
	"proximity-pay/internal/usecase/commands"
	"proximity-pay/tests/common/memuow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture(t *testing.T, fromBalance int64) (*memuow.UoW, commands.LedgerCommands, uuid.UUID, uuid.UUID) {
	t.Helper()
	uow := memuow.New()
	clk := clock.NewMockClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	from := uow.AddWallet(uuid.New(), fromBalance)
	to := uow.AddWallet(uuid.New(), 0)
	return uow, commands.NewLedgerCommands(uow, clk), from, to
}

// assertLedgerMatchesBalance checks that each wallet's signed entry sum
// equals its stored balance.
func assertLedgerMatchesBalance(t *testing.T, uow *memuow.UoW, walletIDs ...uuid.UUID) {
	t.Helper()
	for _, id := range walletIDs {
		assert.Equal(t, uow.Balance(id), wallet.Balance(uow.EntriesFor(id)), "wallet %s", id)
	}
}

func TestLedgerTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("success: debit and credit with shared ref", func(t *testing.T) {
		uow, ledger, from, to := newLedgerFixture(t, 1000)

		res, err := ledger.Transfer(ctx, commands.TransferParams{
			FromWalletID: from,
			ToWalletID:   to,
			AmountCents:  300,
			RefType:      wallet.RefTypePaymentSession,
			RefID:        "ref-1",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(700), res.FromBalanceCents)
		assert.Equal(t, int64(300), res.ToBalanceCents)
		assert.Equal(t, int64(700), uow.Balance(from))
		assert.Equal(t, int64(300), uow.Balance(to))

		entries := uow.EntriesByRefType(wallet.RefTypePaymentSession)
		require.Len(t, entries, 2)
		assert.Equal(t, wallet.EntryTypeSendP2P, entries[0].Type)
		assert.Equal(t, wallet.DirectionDebit, entries[0].Direction)
		assert.Equal(t, wallet.EntryTypeReceiveP2P, entries[1].Type)
		assert.Equal(t, wallet.DirectionCredit, entries[1].Direction)
		for _, e := range entries {
			assert.Equal(t, int64(300), e.AmountCents)
			assert.Equal(t, "ref-1", e.RefID)
		}
		assertLedgerMatchesBalance(t, uow, from, to)
	})

	t.Run("success: whole balance can be sent", func(t *testing.T) {
		uow, ledger, from, to := newLedgerFixture(t, 250)

		_, err := ledger.Transfer(ctx, commands.TransferParams{FromWalletID: from, ToWalletID: to, AmountCents: 250, RefType: wallet.RefTypePaymentSession, RefID: "all"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), uow.Balance(from))
	})

	t.Run("error: balance plus one fails and changes nothing", func(t *testing.T) {
		uow, ledger, from, to := newLedgerFixture(t, 1000)

		_, err := ledger.Transfer(ctx, commands.TransferParams{FromWalletID: from, ToWalletID: to, AmountCents: 1001, RefType: wallet.RefTypePaymentSession, RefID: "too-much"})
		assert.True(t, errs.Is(err, errs.ErrInsufficientFunds))
		assert.Equal(t, int64(1000), uow.Balance(from))
		assert.Equal(t, int64(0), uow.Balance(to))
		assert.Empty(t, uow.EntriesByRefType(wallet.RefTypePaymentSession))
		assertLedgerMatchesBalance(t, uow, from, to)
	})

	t.Run("error: missing destination rolls back the debit", func(t *testing.T) {
		uow, ledger, from, _ := newLedgerFixture(t, 1000)

		_, err := ledger.Transfer(ctx, commands.TransferParams{FromWalletID: from, ToWalletID: uuid.New(), AmountCents: 10, RefType: wallet.RefTypePaymentSession, RefID: "nowhere"})
		assert.True(t, errs.Is(err, errs.ErrNotFound))
		assert.Equal(t, int64(1000), uow.Balance(from))
		assert.Empty(t, uow.EntriesByRefType(wallet.RefTypePaymentSession))
	})

	t.Run("error: missing source", func(t *testing.T) {
		_, ledger, _, to := newLedgerFixture(t, 1000)

		_, err := ledger.Transfer(ctx, commands.TransferParams{FromWalletID: uuid.New(), ToWalletID: to, AmountCents: 10, RefType: wallet.RefTypePaymentSession, RefID: "ghost"})
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("error: invalid amounts", func(t *testing.T) {
		_, ledger, from, to := newLedgerFixture(t, 1000)

		for _, amount := range []int64{0, -5} {
			_, err := ledger.Transfer(ctx, commands.TransferParams{FromWalletID: from, ToWalletID: to, AmountCents: amount, RefType: wallet.RefTypePaymentSession, RefID: "bad"})
			assert.True(t, errs.Is(err, errs.ErrInvalidAmount), "amount %d", amount)
		}
	})

	t.Run("error: same wallet", func(t *testing.T) {
		_, ledger, from, _ := newLedgerFixture(t, 1000)

		_, err := ledger.Transfer(ctx, commands.TransferParams{FromWalletID: from, ToWalletID: from, AmountCents: 1, RefType: wallet.RefTypePaymentSession, RefID: "self"})
		assert.True(t, errs.Is(err, errs.ErrSelfPayment))
	})
}

func TestLedgerDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 残高と DEPOSIT エントリが揃って増える", func(t *testing.T) {
		uow, ledger, _, to := newLedgerFixture(t, 0)

		res, err := ledger.Deposit(ctx, commands.DepositParams{WalletID: to, AmountCents: 750, RefID: "topup-1"})
		require.NoError(t, err)

		assert.Equal(t, int64(750), res.BalanceCents)
		assert.Equal(t, wallet.EntryTypeDeposit, res.Credit.Type)
		assert.Equal(t, wallet.DirectionCredit, res.Credit.Direction)
		assert.Equal(t, "topup-1", res.Credit.RefID)
		assert.Equal(t, int64(750), uow.Balance(to))
		assertLedgerMatchesBalance(t, uow, to)
	})

	t.Run("opening balances are booked as deposits", func(t *testing.T) {
		uow, _, from, to := newLedgerFixture(t, 1000)

		entries := uow.EntriesFor(from)
		require.Len(t, entries, 1)
		assert.Equal(t, wallet.EntryTypeDeposit, entries[0].Type)
		assert.Equal(t, memuow.OpeningBalanceRef, entries[0].RefID)
		assert.Empty(t, uow.EntriesFor(to))
		assertLedgerMatchesBalance(t, uow, from, to)
	})

	t.Run("異常系: 金額0は InvalidAmount で何も変わらない", func(t *testing.T) {
		uow, ledger, _, to := newLedgerFixture(t, 0)

		_, err := ledger.Deposit(ctx, commands.DepositParams{WalletID: to, AmountCents: 0, RefID: "zero"})
		assert.True(t, errs.Is(err, errs.ErrInvalidAmount))
		assert.Equal(t, int64(0), uow.Balance(to))
		assert.Empty(t, uow.EntriesFor(to))
	})

	t.Run("異常系: 存在しないウォレットは NotFound", func(t *testing.T) {
		uow, ledger, _, _ := newLedgerFixture(t, 0)
		before := len(uow.Entries())

		_, err := ledger.Deposit(ctx, commands.DepositParams{WalletID: uuid.New(), AmountCents: 10, RefID: "ghost"})
		assert.True(t, errs.Is(err, errs.ErrNotFound))
		assert.Len(t, uow.Entries(), before)
	})
}
