// sqlc v1.29.0
// source: idempotency.sql

package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getIdempotencyKey = `-- name: GetIdempotencyKey :one
SELECT key, user_id, route, ref, created_at
FROM idempotency_keys
WHERE key = $1
`

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, key string) (IdempotencyKeys, error) {
	row := db.QueryRow(ctx, getIdempotencyKey, key)
	var i IdempotencyKeys
	err := row.Scan(
		&i.Key,
		&i.UserID,
		&i.Route,
		&i.Ref,
		&i.CreatedAt,
	)
	return i, err
}

const tryInsertIdempotencyKey = `-- name: TryInsertIdempotencyKey :execrows
INSERT INTO idempotency_keys (key, user_id, route, ref, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (key) DO NOTHING
`

type TryInsertIdempotencyKeyParams struct {
	Key       string             `json:"key"`
	UserID    uuid.UUID          `json:"user_id"`
	Route     string             `json:"route"`
	Ref       string             `json:"ref"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) TryInsertIdempotencyKey(ctx context.Context, db DBTX, arg TryInsertIdempotencyKeyParams) (int64, error) {
	result, err := db.Exec(ctx, tryInsertIdempotencyKey,
		arg.Key,
		arg.UserID,
		arg.Route,
		arg.Ref,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
