package repository

import (
	"context"
	"time"

	"proximity-pay/internal/domain/session"
	"proximity-pay/internal/infra"
	"proximity-pay/internal/infra/repository/converter"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SessionWriteQueries interface {
	CreatePaymentSession(ctx context.Context, db sqlc.DBTX, arg sqlc.CreatePaymentSessionParams) (sqlc.PaymentSessions, error)
	CreateSessionEid(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateSessionEidParams) error
	GetPaymentSessionByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.PaymentSessions, error)
	GetPaymentSessionByIDForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.PaymentSessions, error)
	LockPaymentSession(ctx context.Context, db sqlc.DBTX, arg sqlc.LockPaymentSessionParams) (int64, error)
	MarkPaymentSessionPaid(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkPaymentSessionPaidParams) (int64, error)
}

type SessionRepository struct {
	queries SessionWriteQueries
}

func NewSessionRepository(queries SessionWriteQueries) *SessionRepository {
	return &SessionRepository{queries: queries}
}

func (r *SessionRepository) Create(ctx context.Context, tx sqlc.DBTX, s *session.Session) error {
	if _, err := r.queries.CreatePaymentSession(ctx, tx, converter.SessionToCreateParams(s)); err != nil {
		return infra.WrapRepoErr("failed to create payment session", err)
	}
	return nil
}

func (r *SessionRepository) BindEID(ctx context.Context, tx sqlc.DBTX, b session.Binding) error {
	if err := r.queries.CreateSessionEid(ctx, tx, converter.BindingToCreateParams(b)); err != nil {
		return infra.WrapRepoErr("failed to bind session eid", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*session.Session, error) {
	row, err := r.queries.GetPaymentSessionByID(ctx, tx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get payment session", err)
	}
	return toSession(row)
}

// FindByIDForUpdate takes a row lock held until the surrounding transaction
// ends.
func (r *SessionRepository) FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*session.Session, error) {
	row, err := r.queries.GetPaymentSessionByIDForUpdate(ctx, tx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock payment session", err)
	}
	return toSession(row)
}

// MarkLocked moves an unexpired ADVERTISING session to LOCKED. It reports
// false when no row matched, leaving classification to the caller.
func (r *SessionRepository) MarkLocked(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, now time.Time) (bool, error) {
	n, err := r.queries.LockPaymentSession(ctx, tx, sqlc.LockPaymentSessionParams{
		Now: pgconv.TimeToPgtype(now),
		ID:  id,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to lock payment session", err)
	}
	return n == 1, nil
}

func (r *SessionRepository) MarkPaid(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, from []session.Status, now time.Time) (bool, error) {
	n, err := r.queries.MarkPaymentSessionPaid(ctx, tx, sqlc.MarkPaymentSessionPaidParams{
		Now:          pgconv.TimeToPgtype(now),
		ID:           id,
		FromStatuses: converter.StatusesToInfra(from),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark payment session paid", err)
	}
	return n == 1, nil
}

func toSession(row sqlc.PaymentSessions) (*session.Session, error) {
	s, err := converter.SessionFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored payment session is invalid", err)
	}
	return s, nil
}
