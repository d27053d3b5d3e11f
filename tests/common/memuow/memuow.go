//go:build unit || e2e

// Package memuow is an in-memory shared.UnitOfWork for usecase tests.
// Transactions are serialized and work on a copy of the state that is only
// published on success, so a failed callback leaves nothing behind.
package memuow

import (
	"context"
	"slices"
	"sync"
	"time"

	"proximity-pay/internal/domain/session"
	"proximity-pay/internal/domain/wallet"
	"proximity-pay/internal/infra"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/usecase/shared"

	"github.com/google/uuid"
)

type walletRow struct {
	id             uuid.UUID
	userID         uuid.UUID
	availableCents int64
	updatedAt      time.Time
}

type state struct {
	sessions map[uuid.UUID]*session.Session
	bindings []session.Binding
	wallets  map[uuid.UUID]*walletRow
	entries  []wallet.Entry
	keys     map[string]shared.IdempotencyRecord
	users    map[string]shared.UserSnapshot
}

func newState() *state {
	return &state{
		sessions: map[uuid.UUID]*session.Session{},
		wallets:  map[uuid.UUID]*walletRow{},
		keys:     map[string]shared.IdempotencyRecord{},
		users:    map[string]shared.UserSnapshot{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	c.bindings = slices.Clone(s.bindings)
	for k, v := range s.wallets {
		w := *v
		c.wallets[k] = &w
	}
	c.entries = slices.Clone(s.entries)
	for k, v := range s.keys {
		c.keys[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

type UoW struct {
	mu    sync.Mutex
	state *state

	// FailCommit, when set, is returned instead of committing the next
	// transaction.
	FailCommit error
	// Commits counts successful Within calls.
	Commits int
}

func New() *UoW {
	return &UoW{state: newState()}
}

var _ shared.UnitOfWork = (*UoW)(nil)

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	work := u.state.clone()
	if err := fn(ctx, &memTx{s: work}); err != nil {
		return err
	}
	if u.FailCommit != nil {
		err := u.FailCommit
		u.FailCommit = nil
		return err
	}
	u.state = work
	u.Commits++
	return nil
}

func (u *UoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UoW) WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UoW) CommandReads() shared.CommandReads {
	u.mu.Lock()
	defer u.mu.Unlock()
	return &memTx{s: u.state.clone()}
}

// Seeding and inspection helpers. They take the same lock as Within.

func (u *UoW) AddUser(snap shared.UserSnapshot) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.users[snap.Email] = snap
}

// OpeningBalanceRef is the deposit reference AddWallet funds wallets with.
const OpeningBalanceRef = "opening-balance"

// AddWallet creates a wallet for userID and returns its id. A positive
// openingCents is booked as a DEPOSIT entry so the ledger sum matches the
// stored balance.
func (u *UoW) AddWallet(userID uuid.UUID, openingCents int64) uuid.UUID {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := uuid.New()
	w := &walletRow{id: id, userID: userID}
	u.state.wallets[id] = w
	if openingCents > 0 {
		deposit, err := wallet.NewDeposit(id, openingCents, OpeningBalanceRef, time.Time{})
		if err != nil {
			panic(err)
		}
		w.availableCents = deposit.AmountCents()
		u.state.entries = append(u.state.entries, deposit.Entry())
	}
	return id
}

func (u *UoW) PutSession(s *session.Session) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.sessions[s.ID()] = s
}

func (u *UoW) Session(id uuid.UUID) (*session.Session, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.state.sessions[id]
	return s, ok
}

func (u *UoW) Bindings() []session.Binding {
	u.mu.Lock()
	defer u.mu.Unlock()
	return slices.Clone(u.state.bindings)
}

func (u *UoW) Balance(walletID uuid.UUID) int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if w, ok := u.state.wallets[walletID]; ok {
		return w.availableCents
	}
	return 0
}

func (u *UoW) Entries() []wallet.Entry {
	u.mu.Lock()
	defer u.mu.Unlock()
	return slices.Clone(u.state.entries)
}

func (u *UoW) EntriesFor(walletID uuid.UUID) []wallet.Entry {
	var out []wallet.Entry
	for _, e := range u.Entries() {
		if e.WalletID == walletID {
			out = append(out, e)
		}
	}
	return out
}

func (u *UoW) EntriesByRefType(refType wallet.RefType) []wallet.Entry {
	var out []wallet.Entry
	for _, e := range u.Entries() {
		if e.RefType == refType {
			out = append(out, e)
		}
	}
	return out
}

func (u *UoW) IdempotencyKeys() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	keys := make([]string, 0, len(u.state.keys))
	for k := range u.state.keys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type memTx struct {
	s *state
}

func (t *memTx) Sessions() shared.SessionRepository        { return sessionRepo{t.s} }
func (t *memTx) Wallets() shared.WalletRepository          { return walletRepo{t.s} }
func (t *memTx) Ledger() shared.LedgerRepository           { return ledgerRepo{t.s} }
func (t *memTx) Idempotency() shared.IdempotencyRepository { return idempotencyRepo{t.s} }
func (t *memTx) Reads() shared.CommandReads                { return t }
func (t *memTx) DB() sqlc.DBTX                             { return nil }

func (t *memTx) UserByEmail(_ context.Context, email string) (*shared.UserSnapshot, error) {
	snap, ok := t.s.users[email]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

type sessionRepo struct{ s *state }

func (r sessionRepo) Create(_ context.Context, _ sqlc.DBTX, sess *session.Session) error {
	if _, ok := r.s.sessions[sess.ID()]; ok {
		return infra.WrapRepoErr("payment session already exists", nil, infra.KindDuplicateKey)
	}
	r.s.sessions[sess.ID()] = sess
	return nil
}

func (r sessionRepo) BindEID(_ context.Context, _ sqlc.DBTX, b session.Binding) error {
	if _, ok := r.s.sessions[b.SessionID]; !ok {
		return infra.WrapRepoErr("payment session missing", nil, infra.KindForeignKeyViolated)
	}
	r.s.bindings = append(r.s.bindings, b)
	return nil
}

func (r sessionRepo) FindByID(_ context.Context, _ sqlc.DBTX, id uuid.UUID) (*session.Session, error) {
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, infra.WrapRepoErr("payment session not found", nil, infra.KindNotFound)
	}
	return sess, nil
}

func (r sessionRepo) FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*session.Session, error) {
	return r.FindByID(ctx, tx, id)
}

func (r sessionRepo) MarkLocked(_ context.Context, _ sqlc.DBTX, id uuid.UUID, now time.Time) (bool, error) {
	return r.transition(id, []session.Status{session.StatusAdvertising}, session.StatusLocked, now), nil
}

func (r sessionRepo) MarkPaid(_ context.Context, _ sqlc.DBTX, id uuid.UUID, from []session.Status, now time.Time) (bool, error) {
	return r.transition(id, from, session.StatusPaid, now), nil
}

// transition mirrors the conditional UPDATE: status must be one of from and
// the session must not be past its deadline.
func (r sessionRepo) transition(id uuid.UUID, from []session.Status, to session.Status, now time.Time) bool {
	sess, ok := r.s.sessions[id]
	if !ok || !slices.Contains(from, sess.Status()) || sess.IsExpired(now) {
		return false
	}
	r.s.sessions[id] = session.Reconstruct(
		sess.ID(), sess.PayeeID(),
		sess.AmountCents(),
		sess.SplitMode(),
		sess.MaxPayers(),
		to,
		sess.ExpiresAt(), sess.CreatedAt(), now,
	)
	return true
}

type walletRepo struct{ s *state }

func (r walletRepo) FindByUserID(_ context.Context, _ sqlc.DBTX, userID uuid.UUID) (*wallet.Wallet, error) {
	for _, w := range r.s.wallets {
		if w.userID == userID {
			return wallet.Reconstruct(w.id, w.userID, w.availableCents, w.updatedAt), nil
		}
	}
	return nil, infra.WrapRepoErr("wallet not found", nil, infra.KindNotFound)
}

func (r walletRepo) FindByIDForUpdate(_ context.Context, _ sqlc.DBTX, id uuid.UUID) (*wallet.Wallet, error) {
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, infra.WrapRepoErr("wallet not found", nil, infra.KindNotFound)
	}
	return wallet.Reconstruct(w.id, w.userID, w.availableCents, w.updatedAt), nil
}

func (r walletRepo) AddBalance(_ context.Context, _ sqlc.DBTX, id uuid.UUID, deltaCents int64, now time.Time) (int64, error) {
	w, ok := r.s.wallets[id]
	if !ok {
		return 0, infra.WrapRepoErr("wallet not found", nil, infra.KindNotFound)
	}
	if w.availableCents+deltaCents < 0 {
		return 0, infra.WrapRepoErr("wallet balance would go negative", nil, infra.KindCheckViolated)
	}
	w.availableCents += deltaCents
	w.updatedAt = now
	return w.availableCents, nil
}

type ledgerRepo struct{ s *state }

func (r ledgerRepo) Append(_ context.Context, _ sqlc.DBTX, entries ...wallet.Entry) error {
	for _, e := range entries {
		if _, ok := r.s.wallets[e.WalletID]; !ok {
			return infra.WrapRepoErr("ledger wallet missing", nil, infra.KindForeignKeyViolated)
		}
	}
	r.s.entries = append(r.s.entries, entries...)
	return nil
}

type idempotencyRepo struct{ s *state }

func (r idempotencyRepo) TryInsert(_ context.Context, _ sqlc.DBTX, rec shared.IdempotencyRecord) (bool, error) {
	if _, ok := r.s.keys[rec.Key]; ok {
		return false, nil
	}
	r.s.keys[rec.Key] = rec
	return true, nil
}
