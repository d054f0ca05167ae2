package common

import "errors"

// Domain errors surfaced by the ledger core. All of them are local,
// recoverable conditions that the session layer renders to the user.
var (
	ErrInvalidInput            = errors.New("missing or empty required field")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrAccountNotFound         = errors.New("account not found")
	ErrSenderAccountNotFound   = errors.New("sender account not found")
	ErrReceiverAccountNotFound = errors.New("receiver account not found")
	ErrSameAccountTransfer     = errors.New("cannot transfer money to the same account")
	ErrAuthenticationFailed    = errors.New("old pin does not match")
	ErrAccountLocked           = errors.New("account is locked")

	// ErrPersistence wraps storage failures. The in-memory ledger state stays
	// applied and usable when it is returned; the caller may retry the save.
	ErrPersistence = errors.New("failed to persist ledger state")
)
