//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"proximity-pay/internal/domain/session"
	"proximity-pay/internal/domain/wallet"
	"proximity-pay/internal/pkg/clock"
	"proximity-pay/internal/pkg/errs"
	"proximity-pay/internal/usecase/commands"
	"proximity-pay/internal/usecase/shared"
	"proximity-pay/tests/common/builder"
	"proximity-pay/tests/common/memuow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type fixedEIDs struct {
	mu   sync.Mutex
	next int
	err  error
}

func (g *fixedEIDs) NewEID() (session.EID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.next++
	return session.EID(fmt.Sprintf("%010x", g.next)), nil
}

type SessionCommandsTestSuite struct {
	suite.Suite
	ctx   context.Context
	uow   *memuow.UoW
	clock *clock.MockClock
	eids  *fixedEIDs
	cmds  commands.SessionCommands

	payeeID       uuid.UUID
	payerID       uuid.UUID
	payeeWalletID uuid.UUID
	payerWalletID uuid.UUID
}

func TestSessionCommandsSuite(t *testing.T) {
	suite.Run(t, new(SessionCommandsTestSuite))
}

func (s *SessionCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.uow = memuow.New()
	s.clock = clock.NewMockClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	s.eids = &fixedEIDs{}

	s.payeeID = uuid.New()
	s.payerID = uuid.New()
	s.payeeWalletID = s.uow.AddWallet(s.payeeID, 0)
	s.payerWalletID = s.uow.AddWallet(s.payerID, 1000)

	s.cmds = s.newCommands(commands.SessionPolicy{})
}

func (s *SessionCommandsTestSuite) newCommands(policy commands.SessionPolicy) commands.SessionCommands {
	factory := session.NewFactory(s.clock, 300*time.Second, s.eids)
	ledger := commands.NewLedgerCommands(s.uow, s.clock)
	return commands.NewSessionCommands(s.uow, factory, ledger, s.clock, policy)
}

func (s *SessionCommandsTestSuite) assertLedgerMatchesBalance() {
	for _, id := range []uuid.UUID{s.payerWalletID, s.payeeWalletID} {
		s.Equal(s.uow.Balance(id), wallet.Balance(s.uow.EntriesFor(id)), "wallet %s", id)
	}
}

func (s *SessionCommandsTestSuite) createSession(amount int64) uuid.UUID {
	res, err := s.cmds.Create(s.ctx, commands.CreateSessionParams{PayeeID: s.payeeID, AmountCents: amount})
	s.Require().NoError(err)
	return res.SessionID
}

func (s *SessionCommandsTestSuite) status(id uuid.UUID) session.Status {
	got, ok := s.uow.Session(id)
	s.Require().True(ok)
	return got.Status()
}

func (s *SessionCommandsTestSuite) TestCreate() {
	s.Run("success: session advertising with one binding", func() {
		res, err := s.cmds.Create(s.ctx, commands.CreateSessionParams{PayeeID: s.payeeID, AmountCents: 500})
		s.Require().NoError(err)

		s.Len(res.EID.String(), 2*session.EIDBytes)
		s.Equal(s.clock.Now().Add(300*time.Second), res.ExpiresAt)

		got, ok := s.uow.Session(res.SessionID)
		s.Require().True(ok)
		s.Equal(session.StatusAdvertising, got.Status())
		s.Equal(int64(500), got.AmountCents())
		s.Equal(session.SplitModeSingle, got.SplitMode())
		s.Equal(1, got.MaxPayers())

		var bound []session.Binding
		for _, b := range s.uow.Bindings() {
			if b.SessionID == res.SessionID {
				bound = append(bound, b)
			}
		}
		s.Require().Len(bound, 1)
		s.Equal(res.EID, bound[0].EID)
	})

	s.Run("error: non-positive amount", func() {
		for _, amount := range []int64{0, -1} {
			commits := s.uow.Commits
			_, err := s.cmds.Create(s.ctx, commands.CreateSessionParams{PayeeID: s.payeeID, AmountCents: amount})
			s.True(errs.Is(err, errs.ErrInvalidAmount), "amount %d", amount)
			s.Equal(commits, s.uow.Commits)
		}
	})

	s.Run("error: identifier generation failure is a storage failure", func() {
		s.eids.err = errors.New("entropy exhausted")
		defer func() { s.eids.err = nil }()

		_, err := s.cmds.Create(s.ctx, commands.CreateSessionParams{PayeeID: s.payeeID, AmountCents: 500})
		s.True(errs.Is(err, errs.ErrStorageFailure))
	})

	s.Run("error: storage failure rolls back session and binding", func() {
		before := len(s.uow.Bindings())
		s.uow.FailCommit = errors.New("connection reset")

		_, err := s.cmds.Create(s.ctx, commands.CreateSessionParams{PayeeID: s.payeeID, AmountCents: 500})
		s.True(errs.Is(err, errs.ErrStorageFailure))
		s.Len(s.uow.Bindings(), before)
	})
}

func (s *SessionCommandsTestSuite) TestLock() {
	s.Run("success: advertising becomes locked", func() {
		id := s.createSession(500)
		s.Require().NoError(s.cmds.Lock(s.ctx, id, s.payerID))
		s.Equal(session.StatusLocked, s.status(id))
	})

	s.Run("error: second lock conflicts", func() {
		id := s.createSession(500)
		s.Require().NoError(s.cmds.Lock(s.ctx, id, s.payerID))
		err := s.cmds.Lock(s.ctx, id, uuid.New())
		s.True(errs.Is(err, errs.ErrConflict))
	})

	s.Run("error: unknown session", func() {
		err := s.cmds.Lock(s.ctx, uuid.New(), s.payerID)
		s.True(errs.Is(err, errs.ErrNotFound))
	})

	s.Run("error: expired session is gone", func() {
		id := s.createSession(500)
		s.clock.Add(301 * time.Second)
		defer s.clock.Add(-301 * time.Second)

		err := s.cmds.Lock(s.ctx, id, s.payerID)
		s.True(errs.Is(err, errs.ErrGone))
		s.Equal(session.StatusAdvertising, s.status(id))
	})

	s.Run("boundary: exactly at expiry still locks", func() {
		id := s.createSession(500)
		s.clock.Add(300 * time.Second)
		defer s.clock.Add(-300 * time.Second)

		s.NoError(s.cmds.Lock(s.ctx, id, s.payerID))
	})

	s.Run("error: paid session conflicts", func() {
		id := s.createSession(100)
		_, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: s.payerID})
		s.Require().NoError(err)

		err = s.cmds.Lock(s.ctx, id, s.payerID)
		s.True(errs.Is(err, errs.ErrConflict))
	})
}

func (s *SessionCommandsTestSuite) TestLock_ConcurrentCallersOneWinner() {
	id := s.createSession(500)

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := s.cmds.Lock(s.ctx, id, uuid.New())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errs.Is(err, errs.ErrConflict):
				conflicts++
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(1, winners)
	s.Equal(callers-1, conflicts)
	s.Equal(session.StatusLocked, s.status(id))
}

func (s *SessionCommandsTestSuite) TestSettle() {
	s.Run("success: moves funds, writes two entries, marks paid", func() {
		id := s.createSession(500)

		res, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: s.payerID})
		s.Require().NoError(err)

		s.Equal(id, res.SessionID)
		s.Equal(int64(500), res.AmountCents)
		s.Equal(int64(500), res.NewBalanceCents)
		s.Equal(int64(500), s.uow.Balance(s.payerWalletID))
		s.Equal(int64(500), s.uow.Balance(s.payeeWalletID))
		s.Equal(session.StatusPaid, s.status(id))
		s.assertLedgerMatchesBalance()

		var refEntries []wallet.Entry
		for _, e := range s.uow.Entries() {
			if e.RefID == id.String() {
				refEntries = append(refEntries, e)
			}
		}
		s.Require().Len(refEntries, 2)
		s.Equal(wallet.DirectionDebit, refEntries[0].Direction)
		s.Equal(s.payerWalletID, refEntries[0].WalletID)
		s.Equal(wallet.DirectionCredit, refEntries[1].Direction)
		s.Equal(s.payeeWalletID, refEntries[1].WalletID)
		for _, e := range refEntries {
			s.Equal(wallet.RefTypePaymentSession, e.RefType)
		}
	})

	s.Run("success: settles a locked session", func() {
		id := s.createSession(100)
		s.Require().NoError(s.cmds.Lock(s.ctx, id, s.payerID))

		_, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: s.payerID})
		s.Require().NoError(err)
		s.Equal(session.StatusPaid, s.status(id))
	})

	s.Run("error: settling twice conflicts", func() {
		id := s.createSession(100)
		_, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: s.payerID})
		s.Require().NoError(err)
		balance := s.uow.Balance(s.payerWalletID)

		_, err = s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: s.payerID})
		s.True(errs.Is(err, errs.ErrConflict))
		s.Equal(balance, s.uow.Balance(s.payerWalletID))
	})

	s.Run("error: payer cannot pay own session", func() {
		id := s.createSession(100)
		_, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: s.payeeID})
		s.True(errs.Is(err, errs.ErrSelfPayment))
		s.Equal(session.StatusAdvertising, s.status(id))
	})

	s.Run("error: unknown session", func() {
		_, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: uuid.New(), PayerID: s.payerID})
		s.True(errs.Is(err, errs.ErrNotFound))
	})

	s.Run("error: expired session is gone", func() {
		id := s.createSession(100)
		s.clock.Add(301 * time.Second)
		defer s.clock.Add(-301 * time.Second)

		_, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: s.payerID})
		s.True(errs.Is(err, errs.ErrGone))
	})

	s.Run("error: payer without wallet", func() {
		id := s.createSession(100)
		_, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: uuid.New()})
		s.True(errs.Is(err, errs.ErrNotFound))
		s.Equal(session.StatusAdvertising, s.status(id))
	})
}

func (s *SessionCommandsTestSuite) TestSettle_InsufficientFundsChangesNothing() {
	balance := s.uow.Balance(s.payerWalletID)
	id := s.createSession(balance + 1)
	entries := len(s.uow.Entries())

	_, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: s.payerID, IdempotencyKey: "k-insufficient"})
	s.True(errs.Is(err, errs.ErrInsufficientFunds))

	s.Equal(balance, s.uow.Balance(s.payerWalletID))
	s.Equal(int64(0), s.uow.Balance(s.payeeWalletID))
	s.Len(s.uow.Entries(), entries)
	s.Equal(session.StatusAdvertising, s.status(id))
	s.assertLedgerMatchesBalance()
	// the key rolls back with everything else so the caller may retry
	s.NotContains(s.uow.IdempotencyKeys(), "k-insufficient")
}

func (s *SessionCommandsTestSuite) TestSettle_IdempotencyReplay() {
	id := s.createSession(500)
	params := commands.SettleSessionParams{SessionID: id, PayerID: s.payerID, IdempotencyKey: "k1"}

	res, err := s.cmds.Settle(s.ctx, params)
	s.Require().NoError(err)
	s.Equal(int64(500), res.NewBalanceCents)

	_, err = s.cmds.Settle(s.ctx, params)
	s.True(errs.Is(err, errs.ErrDuplicateRequest))

	s.Equal(int64(500), s.uow.Balance(s.payerWalletID))
	s.Equal(int64(500), s.uow.Balance(s.payeeWalletID))
	s.Len(s.uow.EntriesByRefType(wallet.RefTypePaymentSession), 2)
	s.Equal([]string{"k1"}, s.uow.IdempotencyKeys())
	s.assertLedgerMatchesBalance()
}

func (s *SessionCommandsTestSuite) TestSettle_RequireLockPolicy() {
	cmds := s.newCommands(commands.SessionPolicy{RequireLock: true})
	res, err := cmds.Create(s.ctx, commands.CreateSessionParams{PayeeID: s.payeeID, AmountCents: 200})
	s.Require().NoError(err)

	_, err = cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: res.SessionID, PayerID: s.payerID})
	s.True(errs.Is(err, errs.ErrConflict))
	s.Equal(session.StatusAdvertising, s.status(res.SessionID))

	s.Require().NoError(cmds.Lock(s.ctx, res.SessionID, s.payerID))
	_, err = cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: res.SessionID, PayerID: s.payerID})
	s.Require().NoError(err)
	s.Equal(session.StatusPaid, s.status(res.SessionID))
}

func (s *SessionCommandsTestSuite) TestSettle_ConcurrentPayersOneWinner() {
	id := s.createSession(100)
	payers := make([]uuid.UUID, 8)
	for i := range payers {
		payers[i] = uuid.New()
		s.uow.AddWallet(payers[i], 1000)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, p := range payers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: p})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)
	s.Equal(int64(100), s.uow.Balance(s.payeeWalletID))
}

// 500/1000 scenario from the product brief.
func TestSettle_EndToEndScenario(t *testing.T) {
	uow := memuow.New()
	clk := clock.NewMockClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	payee := builder.NewUserBuilder().WithEmail("bob@example.com").BuildSnapshot()
	payer := builder.NewUserBuilder().WithEmail("alice@example.com").BuildSnapshot()
	payeeWallet := uow.AddWallet(payee.ID, 0)
	payerWallet := uow.AddWallet(payer.ID, 1000)

	factory := session.NewFactory(clk, 300*time.Second, session.NewRandomEIDGenerator())
	cmds := commands.NewSessionCommands(uow, factory, commands.NewLedgerCommands(uow, clk), clk, commands.SessionPolicy{})

	created, err := cmds.Create(context.Background(), commands.CreateSessionParams{PayeeID: payee.ID, AmountCents: 500})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := session.ParseEID(created.EID.String()); err != nil {
		t.Fatalf("eid %q is not 10 hex chars: %v", created.EID, err)
	}

	res, err := cmds.Settle(context.Background(), commands.SettleSessionParams{SessionID: created.SessionID, PayerID: payer.ID, IdempotencyKey: "scenario"})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if res.NewBalanceCents != 500 || uow.Balance(payerWallet) != 500 || uow.Balance(payeeWallet) != 500 {
		t.Fatalf("balances payer=%d payee=%d result=%d", uow.Balance(payerWallet), uow.Balance(payeeWallet), res.NewBalanceCents)
	}
	for name, id := range map[string]uuid.UUID{"payer": payerWallet, "payee": payeeWallet} {
		if stored, sum := uow.Balance(id), wallet.Balance(uow.EntriesFor(id)); stored != sum {
			t.Fatalf("%s stored=%d ledgerSum=%d", name, stored, sum)
		}
	}
}

// retryOnceUoW fails the first commit like a serialization failure and runs
// the callback again, the way the postgres unit of work retries.
type retryOnceUoW struct {
	*memuow.UoW
	beforeRetry func()
}

func (u *retryOnceUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.FailCommit = errs.New("could not serialize access")
	if err := u.UoW.Within(ctx, fn); err == nil {
		return nil
	}
	u.FailCommit = nil
	u.beforeRetry()
	return u.UoW.Within(ctx, fn)
}

func (s *SessionCommandsTestSuite) TestRetriedTransactionReadsClockAgain() {
	newCmds := func() (commands.SessionCommands, uuid.UUID) {
		id := s.createSession(100)
		retrying := &retryOnceUoW{UoW: s.uow, beforeRetry: func() { s.clock.Add(301 * time.Second) }}
		factory := session.NewFactory(s.clock, 300*time.Second, s.eids)
		ledger := commands.NewLedgerCommands(retrying, s.clock)
		return commands.NewSessionCommands(retrying, factory, ledger, s.clock, commands.SessionPolicy{}), id
	}

	s.Run("settle retried past expiry is gone", func() {
		cmds, id := newCmds()
		defer s.clock.Add(-301 * time.Second)
		balance := s.uow.Balance(s.payerWalletID)

		_, err := cmds.Settle(s.ctx, commands.SettleSessionParams{SessionID: id, PayerID: s.payerID, IdempotencyKey: "k-retry"})
		s.True(errs.Is(err, errs.ErrGone))
		s.Equal(session.StatusAdvertising, s.status(id))
		s.Equal(balance, s.uow.Balance(s.payerWalletID))
		s.NotContains(s.uow.IdempotencyKeys(), "k-retry")
	})

	s.Run("lock retried past expiry is gone", func() {
		cmds, id := newCmds()
		defer s.clock.Add(-301 * time.Second)

		err := cmds.Lock(s.ctx, id, s.payerID)
		s.True(errs.Is(err, errs.ErrGone))
		s.Equal(session.StatusAdvertising, s.status(id))
	})
}
