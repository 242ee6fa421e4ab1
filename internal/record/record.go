// Package record is the line codec for the two persisted files: one
// comma-delimited, four-field line per account or transaction, no header row.
package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/model"
)

// ErrMalformed reports a persisted line that does not decode as a record.
// Scans skip such lines rather than aborting, so one corrupt row never makes
// a whole file unreadable.
var ErrMalformed = errors.New("malformed record")

// DateFormat is how transaction dates appear on disk.
const DateFormat = "2006-01-02"

const (
	numFields = 4

	colNumber  = 0
	colName    = 1
	colHash    = 2
	colBalance = 3

	colTxAccount = 0
	colTxKind    = 1
	colTxAmount  = 2
	colTxDate    = 3
)

// MarshalAccount converts an Account to a delimited row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, numFields)
	row[colNumber] = a.Number
	row[colName] = a.Name
	row[colHash] = a.PasswordHash
	row[colBalance] = a.Balance.String()
	return row
}

// UnmarshalAccount converts a delimited row to an Account.
func UnmarshalAccount(row []string) (model.Account, error) {
	if len(row) != numFields {
		return model.Account{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, numFields, len(row))
	}

	balance, err := decimal.NewFromString(row[colBalance])
	if err != nil {
		return model.Account{}, fmt.Errorf("%w: parsing balance %q: %v", ErrMalformed, row[colBalance], err)
	}

	return model.Account{
		Number:       row[colNumber],
		Name:         row[colName],
		PasswordHash: row[colHash],
		Balance:      balance,
	}, nil
}

// MarshalTransaction converts a Transaction to a delimited row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colTxAccount] = tx.AccountNumber
	row[colTxKind] = string(tx.Kind)
	row[colTxAmount] = tx.Amount.String()
	row[colTxDate] = tx.Date.Format(DateFormat)
	return row
}

// UnmarshalTransaction converts a delimited row to a Transaction.
func UnmarshalTransaction(row []string) (model.Transaction, error) {
	if len(row) != numFields {
		return model.Transaction{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, numFields, len(row))
	}

	kind := model.Kind(row[colTxKind])
	if kind != model.KindDeposit && kind != model.KindWithdrawal {
		return model.Transaction{}, fmt.Errorf("%w: unknown kind %q", ErrMalformed, row[colTxKind])
	}

	amount, err := decimal.NewFromString(row[colTxAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: parsing amount %q: %v", ErrMalformed, row[colTxAmount], err)
	}

	date, err := time.Parse(DateFormat, row[colTxDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: parsing date %q: %v", ErrMalformed, row[colTxDate], err)
	}

	return model.Transaction{
		AccountNumber: row[colTxAccount],
		Kind:          kind,
		Amount:        amount,
		Date:          date,
	}, nil
}

// EncodeAccount renders an account as a single line, no trailing newline.
func EncodeAccount(a model.Account) string {
	return joinRow(MarshalAccount(a))
}

// DecodeAccount parses a single accounts.txt line.
func DecodeAccount(line string) (model.Account, error) {
	row, err := splitRow(line)
	if err != nil {
		return model.Account{}, err
	}
	return UnmarshalAccount(row)
}

// EncodeTransaction renders a transaction as a single line, no trailing newline.
func EncodeTransaction(tx model.Transaction) string {
	return joinRow(MarshalTransaction(tx))
}

// DecodeTransaction parses a single transactions.txt line.
func DecodeTransaction(line string) (model.Transaction, error) {
	row, err := splitRow(line)
	if err != nil {
		return model.Transaction{}, err
	}
	return UnmarshalTransaction(row)
}

func joinRow(row []string) string {
	var b strings.Builder
	cw := csv.NewWriter(&b)
	_ = cw.Write(row) // writes to a strings.Builder cannot fail
	cw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func splitRow(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = numFields

	row, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return row, nil
}
