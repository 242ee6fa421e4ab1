package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/model"
)

// Session is the authenticated-account context handed out by Authenticate
// and passed into every scoped operation. It holds a snapshot copy of the
// account, never a live store reference; balance-changing calls keep the
// snapshot in step with the file.
type Session struct {
	account model.Account
	active  bool
}

// Active reports whether the session is still authenticated. A nil session
// counts as anonymous.
func (s *Session) Active() bool {
	return s != nil && s.active
}

// Account returns a copy of the authenticated account snapshot.
func (s *Session) Account() model.Account {
	return s.account
}

// Balance returns the session's view of the balance.
func (s *Session) Balance() decimal.Decimal {
	return s.account.Balance
}
