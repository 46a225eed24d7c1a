package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the immutable record of a completed transfer. It is created
// exactly once, when the transfer commits, and never modified afterwards.
type Transaction struct {
	ID            int64           `json:"id"`
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}
