package commands

import (
	"context"
	"log/slog"
	"time"

	"proximity-pay/internal/domain/auth"
	"proximity-pay/internal/infra"
	"proximity-pay/internal/pkg/errs"
	"proximity-pay/internal/pkg/jwt"
	"proximity-pay/internal/pkg/password"
	"proximity-pay/internal/usecase/shared"

	"github.com/google/uuid"
)

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	UserID      uuid.UUID
	AccessToken string
	ExpiresAt   time.Time
}

type AuthCommands interface {
	Login(ctx context.Context, p LoginParams) (*LoginResult, error)
}

type TokenIssuer interface {
	GenerateToken(userID uuid.UUID) (string, time.Time, error)
}

type authCommandsImpl struct {
	uow    shared.UnitOfWork
	tokens TokenIssuer
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:    uow,
		tokens: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, p LoginParams) (*LoginResult, error) {
	creds, err := auth.NewCredentials(p.Email, p.Password)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}

	snap, err := a.uow.CommandReads().UserByEmail(ctx, creds.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Same error as a password mismatch to prevent user enumeration
			return nil, errs.Mark(err, errs.ErrInvalidCredentials)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	if !snap.IsActive {
		return nil, errs.ErrInvalidCredentials
	}

	if err := password.ComparePassword(snap.PasswordHash, creds.Password()); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}

	token, expiresAt, err := a.tokens.GenerateToken(snap.ID)
	if err != nil {
		slog.Error("failed to issue access token", "user_id", snap.ID, "error", err.Error())
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}

	return &LoginResult{
		UserID:      snap.ID,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
