package ledger

import (
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teller-dev/teller/internal/model"
	"github.com/teller-dev/teller/internal/store"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	accounts := store.NewAccountStore(filepath.Join(dir, "accounts.txt"))
	txlog := store.NewTransactionLog(filepath.Join(dir, "transactions.txt"))
	svc := NewService(accounts, txlog)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)
	}
	return svc
}

func login(t *testing.T, svc *Service, number, password string) *Session {
	t.Helper()
	sess, err := svc.Authenticate(number, password)
	require.NoError(t, err)
	return sess
}

func TestCreateAccount(t *testing.T) {
	svc := newTestService(t)

	number, err := svc.CreateAccount("Alice", dec("100.00"), "hunter2")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), number)

	// The stored balance equals the initial deposit.
	acct, found, err := svc.accounts.Find(number)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Alice", acct.Name)
	assert.True(t, acct.Balance.Equal(dec("100.00")))
	assert.NotEqual(t, "hunter2", acct.PasswordHash, "plaintext must never be stored")

	// Exactly one opening Deposit transaction.
	history, err := svc.log.HistoryFor(number)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.KindDeposit, history[0].Kind)
	assert.True(t, history[0].Amount.Equal(dec("100.00")))
	assert.Equal(t, "2025-06-14", history[0].Date.Format("2006-01-02"))
}

func TestCreateAccount_InvalidAmount(t *testing.T) {
	svc := newTestService(t)

	for _, amount := range []string{"0", "-5"} {
		_, err := svc.CreateAccount("Alice", dec(amount), "pw")
		assert.ErrorIs(t, err, ErrInvalidAmount, "initial deposit %s", amount)
	}
}

func TestCreateAccount_NameWithDelimiter(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateAccount("Alice,Bob", dec("10.00"), "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidName)

	// Nothing was persisted.
	history, err := svc.log.HistoryFor("")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreateAccount_UniqueNumbers(t *testing.T) {
	svc := newTestService(t)

	seen := make(map[string]bool)
	for range 10 {
		number, err := svc.CreateAccount("Alice", dec("1.00"), "pw")
		require.NoError(t, err)
		assert.False(t, seen[number], "number %s issued twice", number)
		seen[number] = true
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	number, err := svc.CreateAccount("Alice", dec("100.00"), "correct horse")
	require.NoError(t, err)

	_, err = svc.Authenticate("000000", "correct horse")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.Authenticate(number, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := svc.Authenticate(number, "correct horse")
	require.NoError(t, err)
	require.True(t, sess.Active())
	assert.Equal(t, number, sess.Account().Number)
	assert.True(t, sess.Balance().Equal(dec("100.00")))
}

func TestDeposit(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("100.00"), "pw")
	sess := login(t, svc, number, "pw")

	balance, err := svc.Deposit(sess, dec("50.00"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("150.00")))
	assert.True(t, sess.Balance().Equal(dec("150.00")))

	// On-disk balance matches the session.
	acct, _, err := svc.accounts.Find(number)
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("150.00")))

	// Exactly one Deposit appended beyond the opening one.
	history, err := svc.log.HistoryFor(number)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.KindDeposit, history[1].Kind)
	assert.True(t, history[1].Amount.Equal(dec("50.00")))
}

func TestDeposit_InvalidAmount(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("100.00"), "pw")
	sess := login(t, svc, number, "pw")

	for _, amount := range []string{"0", "-5"} {
		_, err := svc.Deposit(sess, dec(amount))
		assert.ErrorIs(t, err, ErrInvalidAmount, "deposit %s", amount)
	}

	// State unchanged: balance intact, no transactions appended.
	assert.True(t, sess.Balance().Equal(dec("100.00")))
	history, err := svc.log.HistoryFor(number)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestWithdraw(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("100.00"), "pw")
	sess := login(t, svc, number, "pw")

	balance, err := svc.Withdraw(sess, dec("30.00"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("70.00")))

	acct, _, err := svc.accounts.Find(number)
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("70.00")))

	history, err := svc.log.HistoryFor(number)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.KindWithdrawal, history[1].Kind)
	assert.True(t, history[1].Amount.Equal(dec("30.00")))
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("100.00"), "pw")
	sess := login(t, svc, number, "pw")

	_, err := svc.Withdraw(sess, dec("150.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Balance unchanged everywhere, no transaction appended.
	assert.True(t, sess.Balance().Equal(dec("100.00")))
	acct, _, err := svc.accounts.Find(number)
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("100.00")))
	history, err := svc.log.HistoryFor(number)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestWithdraw_ExactBalance(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("100.00"), "pw")
	sess := login(t, svc, number, "pw")

	balance, err := svc.Withdraw(sess, dec("100.00"))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestWithdraw_InvalidAmount(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("100.00"), "pw")
	sess := login(t, svc, number, "pw")

	for _, amount := range []string{"0", "-5"} {
		_, err := svc.Withdraw(sess, dec(amount))
		assert.ErrorIs(t, err, ErrInvalidAmount, "withdraw %s", amount)
	}
	assert.True(t, sess.Balance().Equal(dec("100.00")))
}

func TestHistory_FullScenario(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("100.00"), "pw")
	sess := login(t, svc, number, "pw")

	_, err := svc.Deposit(sess, dec("50.00"))
	require.NoError(t, err)
	_, err = svc.Withdraw(sess, dec("30.00"))
	require.NoError(t, err)

	assert.True(t, sess.Balance().Equal(dec("120.00")))

	history, err := svc.History(sess)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, model.KindDeposit, history[0].Kind)
	assert.True(t, history[0].Amount.Equal(dec("100.00")))
	assert.Equal(t, model.KindDeposit, history[1].Kind)
	assert.True(t, history[1].Amount.Equal(dec("50.00")))
	assert.Equal(t, model.KindWithdrawal, history[2].Kind)
	assert.True(t, history[2].Amount.Equal(dec("30.00")))
}

func TestLogout(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("100.00"), "pw")
	sess := login(t, svc, number, "pw")

	svc.Logout(sess)
	assert.False(t, sess.Active())

	_, err := svc.Deposit(sess, dec("10.00"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.Withdraw(sess, dec("10.00"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.History(sess)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// Idempotent, including on nil.
	svc.Logout(sess)
	svc.Logout(nil)
}

func TestOperations_NilSession(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Deposit(nil, dec("10.00"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.Withdraw(nil, dec("10.00"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.History(nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSession_IsSnapshot(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("100.00"), "pw")

	first := login(t, svc, number, "pw")
	second := login(t, svc, number, "pw")

	_, err := svc.Deposit(first, dec("25.00"))
	require.NoError(t, err)

	// The second session holds its own copy and does not see the change.
	assert.True(t, second.Balance().Equal(dec("100.00")))
	acct, _, err := svc.accounts.Find(number)
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("125.00")))
}

func TestDeposit_ExactDecimals(t *testing.T) {
	svc := newTestService(t)
	number, _ := svc.CreateAccount("Alice", dec("0.10"), "pw")
	sess := login(t, svc, number, "pw")

	// 0.10 + 0.20 is exactly 0.30 in decimal arithmetic; binary floating
	// point would drift here.
	balance, err := svc.Deposit(sess, dec("0.20"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("0.30")))

	acct, _, err := svc.accounts.Find(number)
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("0.30")))
}
