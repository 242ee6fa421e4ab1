// Package ledger is the façade over the account store and the transaction
// log. It enforces the balance and amount invariants and coordinates the two
// files per operation.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/alloc"
	"github.com/teller-dev/teller/internal/model"
	"github.com/teller-dev/teller/internal/store"
)

// Service provides every account-mutating operation. Operations run
// synchronously end to end, so within one process file access is naturally
// serialized.
type Service struct {
	accounts *store.AccountStore
	log      *store.TransactionLog
	alloc    *alloc.Allocator
	now      func() time.Time
}

// NewService creates a Service over the two backing files.
func NewService(accounts *store.AccountStore, log *store.TransactionLog) *Service {
	return &Service{
		accounts: accounts,
		log:      log,
		alloc:    alloc.New(accounts),
		now:      time.Now,
	}
}

// CreateAccount opens a new account whose balance is the initial deposit and
// logs that deposit as the account's first transaction. Returns the new
// account number.
func (s *Service) CreateAccount(name string, initialDeposit decimal.Decimal, password string) (string, error) {
	if !initialDeposit.IsPositive() {
		return "", ErrInvalidAmount
	}
	if strings.Contains(name, ",") {
		return "", ErrInvalidName
	}

	number, err := s.alloc.Allocate()
	if err != nil {
		return "", fmt.Errorf("allocating account number: %w", err)
	}

	acct := model.Account{
		Number:       number,
		Name:         name,
		PasswordHash: hashPassword(password),
		Balance:      initialDeposit,
	}
	if err := s.accounts.Append(acct); err != nil {
		return "", fmt.Errorf("saving account: %w", err)
	}
	if err := s.logTransaction(number, model.KindDeposit, initialDeposit); err != nil {
		return "", err
	}
	return number, nil
}

// Authenticate checks the password against the stored digest and returns an
// authenticated session. A failed attempt returns ErrAccountNotFound or
// ErrInvalidCredentials and no session.
func (s *Service) Authenticate(number, password string) (*Session, error) {
	acct, found, err := s.accounts.Find(number)
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	if !found {
		return nil, ErrAccountNotFound
	}
	if acct.PasswordHash != hashPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &Session{account: acct, active: true}, nil
}

// Deposit adds amount to the session's account and returns the new balance.
// The file is updated before the session, so a persistence failure leaves
// the session unchanged.
func (s *Service) Deposit(sess *Session, amount decimal.Decimal) (decimal.Decimal, error) {
	if !sess.Active() {
		return decimal.Zero, ErrNotAuthenticated
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	newBalance := sess.account.Balance.Add(amount)
	if err := s.accounts.UpdateBalance(sess.account.Number, newBalance); err != nil {
		return decimal.Zero, fmt.Errorf("saving balance: %w", err)
	}
	sess.account.Balance = newBalance

	if err := s.logTransaction(sess.account.Number, model.KindDeposit, amount); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Withdraw removes amount from the session's account and returns the new
// balance. Fails with ErrInsufficientFunds when amount exceeds the balance,
// leaving both the session and the file untouched.
func (s *Service) Withdraw(sess *Session, amount decimal.Decimal) (decimal.Decimal, error) {
	if !sess.Active() {
		return decimal.Zero, ErrNotAuthenticated
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.GreaterThan(sess.account.Balance) {
		return decimal.Zero, ErrInsufficientFunds
	}

	newBalance := sess.account.Balance.Sub(amount)
	if err := s.accounts.UpdateBalance(sess.account.Number, newBalance); err != nil {
		return decimal.Zero, fmt.Errorf("saving balance: %w", err)
	}
	sess.account.Balance = newBalance

	if err := s.logTransaction(sess.account.Number, model.KindWithdrawal, amount); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// History returns the session account's transactions, oldest first.
func (s *Service) History(sess *Session) ([]model.Transaction, error) {
	if !sess.Active() {
		return nil, ErrNotAuthenticated
	}
	return s.log.HistoryFor(sess.account.Number)
}

// Logout deactivates the session. Safe to call repeatedly or on nil.
func (s *Service) Logout(sess *Session) {
	if sess != nil {
		sess.active = false
	}
}

func (s *Service) logTransaction(number string, kind model.Kind, amount decimal.Decimal) error {
	now := s.now()
	tx := model.Transaction{
		AccountNumber: number,
		Kind:          kind,
		Amount:        amount,
		Date:          time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	if err := s.log.Append(tx); err != nil {
		return fmt.Errorf("logging %s: %w", strings.ToLower(string(kind)), err)
	}
	return nil
}

// hashPassword returns the hex SHA-256 digest of the plaintext. A stand-in
// for real password storage, kept for file-format compatibility.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
