package session

import "errors"

var (
	ErrInvalidAmount    = errors.New("amount must be a positive number of cents")
	ErrInvalidMaxPayers = errors.New("max payers must be at least 1")
	ErrInvalidStatus    = errors.New("invalid session status")
	ErrInvalidEID       = errors.New("invalid broadcast identifier")
	ErrExpired          = errors.New("session expired")
	ErrNotAdvertising   = errors.New("session is not advertising")
	ErrAlreadyPaid      = errors.New("session already paid")
	ErrLockRequired     = errors.New("session must be locked before settle")
	ErrSelfPayment      = errors.New("payer cannot pay their own session")
)
