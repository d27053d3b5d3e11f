package repository

import (
	"context"

	"proximity-pay/internal/infra"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/pkg/pgconv"
	"proximity-pay/internal/usecase/shared"
)

type IdempotencyWriteQueries interface {
	TryInsertIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.TryInsertIdempotencyKeyParams) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries) *IdempotencyRepository {
	return &IdempotencyRepository{queries: queries}
}

// TryInsert records rec and reports whether it was new. A concurrent insert
// of the same key blocks on the primary key until the other transaction
// finishes, so at most one caller ever sees true for a committed key.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, tx sqlc.DBTX, rec shared.IdempotencyRecord) (bool, error) {
	n, err := r.queries.TryInsertIdempotencyKey(ctx, tx, sqlc.TryInsertIdempotencyKeyParams{
		Key:       rec.Key,
		UserID:    rec.UserID,
		Route:     rec.Route,
		Ref:       rec.Ref,
		CreatedAt: pgconv.TimeToPgtype(rec.CreatedAt),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to record idempotency key", err)
	}
	return n == 1, nil
}
