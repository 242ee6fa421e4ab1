package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction as money in or money out.
type Kind string

const (
	KindDeposit    Kind = "Deposit"
	KindWithdrawal Kind = "Withdrawal"
)

// Transaction represents one row in transactions.txt. Amount is the
// magnitude moved, never a signed delta.
type Transaction struct {
	AccountNumber string
	Kind          Kind
	Amount        decimal.Decimal
	Date          time.Time // calendar date, no time of day
}
