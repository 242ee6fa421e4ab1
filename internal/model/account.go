package model

import "github.com/shopspring/decimal"

// Account represents one row in accounts.txt.
//
// Number is six ASCII digits but is kept as a string key so a value with
// leading zeros would survive a round trip unchanged.
type Account struct {
	Number       string
	Name         string
	PasswordHash string // hex digest, never the plaintext
	Balance      decimal.Decimal
}
