// sqlc v1.29.0
// source: wallets.sql

package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const addWalletBalance = `-- name: AddWalletBalance :one
UPDATE wallet_accounts
SET available_cents = available_cents + $1, updated_at = $2
WHERE id = $3
RETURNING available_cents
`

type AddWalletBalanceParams struct {
	DeltaCents int64              `json:"delta_cents"`
	Now        pgtype.Timestamptz `json:"now"`
	ID         uuid.UUID          `json:"id"`
}

func (q *Queries) AddWalletBalance(ctx context.Context, db DBTX, arg AddWalletBalanceParams) (int64, error) {
	row := db.QueryRow(ctx, addWalletBalance, arg.DeltaCents, arg.Now, arg.ID)
	var available_cents int64
	err := row.Scan(&available_cents)
	return available_cents, err
}

const createWallet = `-- name: CreateWallet :one
INSERT INTO wallet_accounts (user_id, available_cents)
VALUES ($1, $2)
RETURNING id, user_id, available_cents, created_at, updated_at
`

type CreateWalletParams struct {
	UserID         uuid.UUID `json:"user_id"`
	AvailableCents int64     `json:"available_cents"`
}

func (q *Queries) CreateWallet(ctx context.Context, db DBTX, arg CreateWalletParams) (WalletAccounts, error) {
	row := db.QueryRow(ctx, createWallet, arg.UserID, arg.AvailableCents)
	var i WalletAccounts
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AvailableCents,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletByIDForUpdate = `-- name: GetWalletByIDForUpdate :one
SELECT id, user_id, available_cents, created_at, updated_at
FROM wallet_accounts
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetWalletByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (WalletAccounts, error) {
	row := db.QueryRow(ctx, getWalletByIDForUpdate, id)
	var i WalletAccounts
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AvailableCents,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletByUserID = `-- name: GetWalletByUserID :one
SELECT id, user_id, available_cents, created_at, updated_at
FROM wallet_accounts
WHERE user_id = $1
`

func (q *Queries) GetWalletByUserID(ctx context.Context, db DBTX, userID uuid.UUID) (WalletAccounts, error) {
	row := db.QueryRow(ctx, getWalletByUserID, userID)
	var i WalletAccounts
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AvailableCents,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
