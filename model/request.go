// file: model/request.go

package model

import "github.com/shopspring/decimal"

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateAccountRequest defines the payload for opening a new account.
// The initial balance may be zero; negative values are rejected by the
// account service, not the validator, so the error kind stays uniform.
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=100"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// UpdateAccountRequest defines the payload for renaming an account.
// Balances are never edited here; they change only through deposits,
// withdrawals and transfers.
type UpdateAccountRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// AmountRequest defines the payload for deposits and withdrawals.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
// Using a dedicated struct instead of an inline anonymous struct in the handler
// improves code clarity and reusability.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin user"`
}
