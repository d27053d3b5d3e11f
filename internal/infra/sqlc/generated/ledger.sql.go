// sqlc v1.29.0
// source: ledger.sql

package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertLedgerEntry = `-- name: InsertLedgerEntry :exec
INSERT INTO ledger_entries (wallet_id, type, direction, amount_cents, ref_type, ref_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type InsertLedgerEntryParams struct {
	WalletID    uuid.UUID          `json:"wallet_id"`
	Type        string             `json:"type"`
	Direction   string             `json:"direction"`
	AmountCents int64              `json:"amount_cents"`
	RefType     string             `json:"ref_type"`
	RefID       string             `json:"ref_id"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertLedgerEntry(ctx context.Context, db DBTX, arg InsertLedgerEntryParams) error {
	_, err := db.Exec(ctx, insertLedgerEntry,
		arg.WalletID,
		arg.Type,
		arg.Direction,
		arg.AmountCents,
		arg.RefType,
		arg.RefID,
		arg.CreatedAt,
	)
	return err
}

const listLedgerEntriesByRef = `-- name: ListLedgerEntriesByRef :many
SELECT id, wallet_id, type, direction, amount_cents, ref_type, ref_id, created_at
FROM ledger_entries
WHERE ref_type = $1 AND ref_id = $2
ORDER BY id
`

type ListLedgerEntriesByRefParams struct {
	RefType string `json:"ref_type"`
	RefID   string `json:"ref_id"`
}

func (q *Queries) ListLedgerEntriesByRef(ctx context.Context, db DBTX, arg ListLedgerEntriesByRefParams) ([]LedgerEntries, error) {
	rows, err := db.Query(ctx, listLedgerEntriesByRef, arg.RefType, arg.RefID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LedgerEntries{}
	for rows.Next() {
		var i LedgerEntries
		if err := rows.Scan(
			&i.ID,
			&i.WalletID,
			&i.Type,
			&i.Direction,
			&i.AmountCents,
			&i.RefType,
			&i.RefID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRecentLedgerEntries = `-- name: ListRecentLedgerEntries :many
SELECT id, wallet_id, type, direction, amount_cents, ref_type, ref_id, created_at
FROM ledger_entries
WHERE wallet_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

type ListRecentLedgerEntriesParams struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Limit    int32     `json:"limit"`
}

func (q *Queries) ListRecentLedgerEntries(ctx context.Context, db DBTX, arg ListRecentLedgerEntriesParams) ([]LedgerEntries, error) {
	rows, err := db.Query(ctx, listRecentLedgerEntries, arg.WalletID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LedgerEntries{}
	for rows.Next() {
		var i LedgerEntries
		if err := rows.Scan(
			&i.ID,
			&i.WalletID,
			&i.Type,
			&i.Direction,
			&i.AmountCents,
			&i.RefType,
			&i.RefID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
