package commands

import (
	"context"
	"time"

	"proximity-pay/internal/domain/session"
	"proximity-pay/internal/domain/wallet"
	"proximity-pay/internal/pkg/clock"
	"proximity-pay/internal/pkg/errs"
	"proximity-pay/internal/pkg/metrics"
	"proximity-pay/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const settleRoute = "POST /api/sessions/:id/settle"

type CreateSessionParams struct {
	PayeeID     uuid.UUID
	AmountCents int64
	SplitMode   string
	MaxPayers   int
}

type CreateSessionResult struct {
	SessionID uuid.UUID
	EID       session.EID
	ExpiresAt time.Time
}

type SettleSessionParams struct {
	SessionID      uuid.UUID
	PayerID        uuid.UUID
	IdempotencyKey string
}

type SettleSessionResult struct {
	SessionID       uuid.UUID
	AmountCents     int64
	NewBalanceCents int64
}

type SessionPolicy struct {
	// RequireLock makes LOCKED a precondition for settle.
	RequireLock bool
}

type SessionCommands interface {
	Create(ctx context.Context, p CreateSessionParams) (*CreateSessionResult, error)
	Lock(ctx context.Context, sessionID, callerID uuid.UUID) error
	Settle(ctx context.Context, p SettleSessionParams) (*SettleSessionResult, error)
}

type sessionCommandsImpl struct {
	uow     shared.UnitOfWork
	factory *session.Factory
	ledger  LedgerCommands
	clock   clock.Clock
	policy  SessionPolicy
}

func NewSessionCommands(uow shared.UnitOfWork, factory *session.Factory, ledger LedgerCommands, clk clock.Clock, policy SessionPolicy) SessionCommands {
	return &sessionCommandsImpl{
		uow:     uow,
		factory: factory,
		ledger:  ledger,
		clock:   clk,
		policy:  policy,
	}
}

func (uc *sessionCommandsImpl) Create(ctx context.Context, p CreateSessionParams) (result *CreateSessionResult, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "SessionCommands.Create")
	defer func() { finish(span, "create", err) }()

	s, binding, err := uc.factory.CreateSession(p.PayeeID, p.AmountCents, session.SplitMode(p.SplitMode), p.MaxPayers)
	if err != nil {
		if errs.Is(err, session.ErrInvalidAmount) || errs.Is(err, session.ErrInvalidMaxPayers) {
			return nil, classify(err)
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to generate broadcast identifier"), errs.ErrStorageFailure)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Sessions().Create(ctx, tx.DB(), s); err != nil {
			return err
		}
		return tx.Sessions().BindEID(ctx, tx.DB(), binding)
	})
	if err != nil {
		return nil, classify(err)
	}

	span.SetAttributes(attribute.String("session.id", s.ID().String()))
	return &CreateSessionResult{
		SessionID: s.ID(),
		EID:       binding.EID,
		ExpiresAt: s.ExpiresAt(),
	}, nil
}

// Lock is a single conditional update; when it matches nothing the current
// row is read to report why. The caller is not bound to the session.
func (uc *sessionCommandsImpl) Lock(ctx context.Context, sessionID, callerID uuid.UUID) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "SessionCommands.Lock", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
		attribute.String("session.caller_id", callerID.String()),
	))
	defer func() { finish(span, "lock", err) }()

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		locked, err := tx.Sessions().MarkLocked(ctx, tx.DB(), sessionID, now)
		if err != nil {
			return err
		}
		if locked {
			return nil
		}

		s, err := tx.Sessions().FindByID(ctx, tx.DB(), sessionID)
		if err != nil {
			return err
		}
		if err := s.CheckLockable(now); err != nil {
			return err
		}
		return errs.Mark(errs.Newf("session %s changed concurrently", sessionID), errs.ErrConflict)
	})
	return classify(err)
}

// Settle runs the idempotency check, the session checks, the ledger
// transfer and the PAID transition in one transaction. The idempotency key
// is claimed first so a replay of a completed request is reported as a
// duplicate rather than a conflict.
func (uc *sessionCommandsImpl) Settle(ctx context.Context, p SettleSessionParams) (result *SettleSessionResult, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "SessionCommands.Settle", trace.WithAttributes(
		attribute.String("session.id", p.SessionID.String()),
		attribute.String("session.payer_id", p.PayerID.String()),
		attribute.Bool("session.idempotent", p.IdempotencyKey != ""),
	))
	defer func() { finish(span, "settle", err) }()

	var amount int64
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// read per attempt; a retried transaction must not reuse a stale time
		now := uc.clock.Now()
		if p.IdempotencyKey != "" {
			inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), shared.IdempotencyRecord{
				Key:       p.IdempotencyKey,
				UserID:    p.PayerID,
				Route:     settleRoute,
				Ref:       p.SessionID.String(),
				CreatedAt: now,
			})
			if err != nil {
				return err
			}
			if !inserted {
				return errs.Mark(errs.Newf("idempotency key %q already used", p.IdempotencyKey), errs.ErrDuplicateRequest)
			}
		}

		s, err := tx.Sessions().FindByIDForUpdate(ctx, tx.DB(), p.SessionID)
		if err != nil {
			return err
		}
		if err := s.CheckSettleable(now, p.PayerID, uc.policy.RequireLock); err != nil {
			return err
		}

		payer, err := tx.Wallets().FindByUserID(ctx, tx.DB(), p.PayerID)
		if err != nil {
			return err
		}
		payee, err := tx.Wallets().FindByUserID(ctx, tx.DB(), s.PayeeID())
		if err != nil {
			return err
		}

		transfer, err := uc.ledger.TransferWithin(ctx, tx, TransferParams{
			FromWalletID: payer.ID(),
			ToWalletID:   payee.ID(),
			AmountCents:  s.AmountCents(),
			RefType:      wallet.RefTypePaymentSession,
			RefID:        s.ID().String(),
		})
		if err != nil {
			return err
		}

		paid, err := tx.Sessions().MarkPaid(ctx, tx.DB(), s.ID(), session.SettleableFrom(uc.policy.RequireLock), now)
		if err != nil {
			return err
		}
		if !paid {
			return errs.Mark(errs.Newf("session %s changed concurrently", s.ID()), errs.ErrConflict)
		}

		amount = s.AmountCents()
		result = &SettleSessionResult{
			SessionID:       s.ID(),
			AmountCents:     s.AmountCents(),
			NewBalanceCents: transfer.FromBalanceCents,
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	metrics.TransferredCentsTotal.Add(float64(amount))
	return result, nil
}

func finish(span trace.Span, operation string, err error) {
	metrics.ObserveSessionOperation(operation, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, metrics.Outcome(err))
	}
	span.End()
}
