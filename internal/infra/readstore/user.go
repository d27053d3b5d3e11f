package readstore

import (
	"context"

	"proximity-pay/internal/infra"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/pkg/pgconv"
	"proximity-pay/internal/usecase/shared"
)

type UserReadQueries interface {
	GetUserByEmail(ctx context.Context, db sqlc.DBTX, email string) (sqlc.Users, error)
}

type UserReadStore struct {
	queries UserReadQueries
}

func NewUserReadStore(queries UserReadQueries) *UserReadStore {
	return &UserReadStore{
		queries: queries,
	}
}

func (r *UserReadStore) FindByEmail(ctx context.Context, db sqlc.DBTX, email string) (*shared.UserSnapshot, error) {
	row, err := r.queries.GetUserByEmail(ctx, db, email)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}

	return &shared.UserSnapshot{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsActive:     row.IsActive,
	}, nil
}
