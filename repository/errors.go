package repository

import "errors"

// Store-level sentinel errors. Services translate these into HTTP status
// codes at the handler layer; none of them is fatal.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("a user with this email already exists")

	// ErrInsufficientFunds is returned when a balance adjustment would leave
	// the account negative. The adjustment is not applied.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
