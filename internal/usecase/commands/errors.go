package commands

import (
	"errors"

	"proximity-pay/internal/domain/session"
	"proximity-pay/internal/domain/wallet"
	"proximity-pay/internal/infra"
	"proximity-pay/internal/pkg/errs"
)

// classify marks domain and repository errors with the shared taxonomy so
// handlers only need errs sentinels. Already-marked errors pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isMarked(err):
		return err
	case errors.Is(err, session.ErrInvalidAmount),
		errors.Is(err, session.ErrInvalidMaxPayers),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrMissingReference):
		return errs.Mark(err, errs.ErrInvalidAmount)
	case errors.Is(err, session.ErrExpired):
		return errs.Mark(err, errs.ErrGone)
	case errors.Is(err, session.ErrNotAdvertising),
		errors.Is(err, session.ErrAlreadyPaid),
		errors.Is(err, session.ErrLockRequired),
		errors.Is(err, session.ErrInvalidStatus):
		return errs.Mark(err, errs.ErrConflict)
	case errors.Is(err, session.ErrSelfPayment),
		errors.Is(err, wallet.ErrSameWallet):
		return errs.Mark(err, errs.ErrSelfPayment)
	case errors.Is(err, wallet.ErrInsufficientFunds),
		infra.IsKind(err, infra.KindCheckViolated):
		return errs.Mark(err, errs.ErrInsufficientFunds)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrNotFound)
	default:
		return errs.Mark(err, errs.ErrStorageFailure)
	}
}

var taxonomy = []error{
	errs.ErrInvalidAmount,
	errs.ErrNotFound,
	errs.ErrGone,
	errs.ErrConflict,
	errs.ErrSelfPayment,
	errs.ErrDuplicateRequest,
	errs.ErrInsufficientFunds,
	errs.ErrStorageFailure,
	errs.ErrInvalidCredentials,
}

func isMarked(err error) bool {
	for _, sentinel := range taxonomy {
		if errs.Is(err, sentinel) {
			return true
		}
	}
	return false
}
