// sqlc v1.29.0
// source: sessions.sql

package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createPaymentSession = `-- name: CreatePaymentSession :one
INSERT INTO payment_sessions (id, payee_id, amount_cents, split_mode, max_payers, status, exp_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING id, payee_id, amount_cents, split_mode, max_payers, status, exp_at, created_at, updated_at
`

type CreatePaymentSessionParams struct {
	ID          uuid.UUID          `json:"id"`
	PayeeID     uuid.UUID          `json:"payee_id"`
	AmountCents int64              `json:"amount_cents"`
	SplitMode   string             `json:"split_mode"`
	MaxPayers   int32              `json:"max_payers"`
	Status      string             `json:"status"`
	ExpAt       pgtype.Timestamptz `json:"exp_at"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreatePaymentSession(ctx context.Context, db DBTX, arg CreatePaymentSessionParams) (PaymentSessions, error) {
	row := db.QueryRow(ctx, createPaymentSession,
		arg.ID,
		arg.PayeeID,
		arg.AmountCents,
		arg.SplitMode,
		arg.MaxPayers,
		arg.Status,
		arg.ExpAt,
		arg.CreatedAt,
	)
	var i PaymentSessions
	err := row.Scan(
		&i.ID,
		&i.PayeeID,
		&i.AmountCents,
		&i.SplitMode,
		&i.MaxPayers,
		&i.Status,
		&i.ExpAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createSessionEid = `-- name: CreateSessionEid :exec
INSERT INTO session_eids (session_id, eid, rotated_at)
VALUES ($1, $2, $3)
`

type CreateSessionEidParams struct {
	SessionID uuid.UUID          `json:"session_id"`
	Eid       string             `json:"eid"`
	RotatedAt pgtype.Timestamptz `json:"rotated_at"`
}

func (q *Queries) CreateSessionEid(ctx context.Context, db DBTX, arg CreateSessionEidParams) error {
	_, err := db.Exec(ctx, createSessionEid, arg.SessionID, arg.Eid, arg.RotatedAt)
	return err
}

const getPaymentSessionByID = `-- name: GetPaymentSessionByID :one
SELECT id, payee_id, amount_cents, split_mode, max_payers, status, exp_at, created_at, updated_at
FROM payment_sessions
WHERE id = $1
`

func (q *Queries) GetPaymentSessionByID(ctx context.Context, db DBTX, id uuid.UUID) (PaymentSessions, error) {
	row := db.QueryRow(ctx, getPaymentSessionByID, id)
	var i PaymentSessions
	err := row.Scan(
		&i.ID,
		&i.PayeeID,
		&i.AmountCents,
		&i.SplitMode,
		&i.MaxPayers,
		&i.Status,
		&i.ExpAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getPaymentSessionByIDForUpdate = `-- name: GetPaymentSessionByIDForUpdate :one
SELECT id, payee_id, amount_cents, split_mode, max_payers, status, exp_at, created_at, updated_at
FROM payment_sessions
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetPaymentSessionByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (PaymentSessions, error) {
	row := db.QueryRow(ctx, getPaymentSessionByIDForUpdate, id)
	var i PaymentSessions
	err := row.Scan(
		&i.ID,
		&i.PayeeID,
		&i.AmountCents,
		&i.SplitMode,
		&i.MaxPayers,
		&i.Status,
		&i.ExpAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const lockPaymentSession = `-- name: LockPaymentSession :execrows
UPDATE payment_sessions
SET status = 'LOCKED', updated_at = $1
WHERE id = $2
  AND status = 'ADVERTISING'
  AND exp_at >= $1
`

type LockPaymentSessionParams struct {
	Now pgtype.Timestamptz `json:"now"`
	ID  uuid.UUID          `json:"id"`
}

func (q *Queries) LockPaymentSession(ctx context.Context, db DBTX, arg LockPaymentSessionParams) (int64, error) {
	result, err := db.Exec(ctx, lockPaymentSession, arg.Now, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const markPaymentSessionPaid = `-- name: MarkPaymentSessionPaid :execrows
UPDATE payment_sessions
SET status = 'PAID', updated_at = $1
WHERE id = $2
  AND status = ANY($3::text[])
  AND exp_at >= $1
`

type MarkPaymentSessionPaidParams struct {
	Now          pgtype.Timestamptz `json:"now"`
	ID           uuid.UUID          `json:"id"`
	FromStatuses []string           `json:"from_statuses"`
}

func (q *Queries) MarkPaymentSessionPaid(ctx context.Context, db DBTX, arg MarkPaymentSessionPaidParams) (int64, error) {
	result, err := db.Exec(ctx, markPaymentSessionPaid, arg.Now, arg.ID, arg.FromStatuses)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const resolveSessionByEid = `-- name: ResolveSessionByEid :one
SELECT ps.id, ps.amount_cents, ps.status, ps.exp_at, u.email AS payee_email
FROM session_eids se
JOIN payment_sessions ps ON ps.id = se.session_id
JOIN users u ON u.id = ps.payee_id
WHERE se.eid = $1
ORDER BY se.rotated_at DESC, se.id DESC
LIMIT 1
`

type ResolveSessionByEidRow struct {
	ID          uuid.UUID          `json:"id"`
	AmountCents int64              `json:"amount_cents"`
	Status      string             `json:"status"`
	ExpAt       pgtype.Timestamptz `json:"exp_at"`
	PayeeEmail  string             `json:"payee_email"`
}

func (q *Queries) ResolveSessionByEid(ctx context.Context, db DBTX, eid string) (ResolveSessionByEidRow, error) {
	row := db.QueryRow(ctx, resolveSessionByEid, eid)
	var i ResolveSessionByEidRow
	err := row.Scan(
		&i.ID,
		&i.AmountCents,
		&i.Status,
		&i.ExpAt,
		&i.PayeeEmail,
	)
	return i, err
}
