// Package store owns the two backing files: accounts.txt and
// transactions.txt. Both are plain delimited text, one record per line.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/model"
	"github.com/teller-dev/teller/internal/record"
)

// ErrAccountNotFound reports a lookup or update for an unknown account number.
var ErrAccountNotFound = errors.New("account not found")

// AccountStore reads and writes accounts.txt. Lookups are linear scans; the
// files stay small enough that an index would buy nothing.
type AccountStore struct {
	path string
}

// NewAccountStore creates a store over the given file path. The file does
// not need to exist yet.
func NewAccountStore(path string) *AccountStore {
	return &AccountStore{path: path}
}

// Path returns the backing file path.
func (s *AccountStore) Path() string {
	return s.path
}

// EnsureFile creates an empty accounts file if none exists.
func (s *AccountStore) EnsureFile() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	return f.Close()
}

// Exists reports whether an account number is present. A missing file reads
// as an empty store.
func (s *AccountStore) Exists(number string) (bool, error) {
	_, found, err := s.Find(number)
	return found, err
}

// Find returns the first account matching number. Blank and undecodable
// lines are skipped.
func (s *AccountStore) Find(number string) (model.Account, bool, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Account{}, false, nil
	}
	if err != nil {
		return model.Account{}, false, fmt.Errorf("opening accounts file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		acct, err := record.DecodeAccount(line)
		if err != nil {
			continue
		}
		if acct.Number == number {
			return acct, true, nil
		}
	}
	if err := sc.Err(); err != nil {
		return model.Account{}, false, fmt.Errorf("scanning accounts file: %w", err)
	}
	return model.Account{}, false, nil
}

// Append adds a new account line, creating the file if needed. The caller
// has already checked number uniqueness.
func (s *AccountStore) Append(a model.Account) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening accounts file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, record.EncodeAccount(a)); err != nil {
		return fmt.Errorf("writing account: %w", err)
	}
	return nil
}

// UpdateBalance replaces the matching account's balance and rewrites the
// whole file, preserving the order of every other line. The record format is
// variable-length text, so a rewrite is the only mutation mechanism. Lines
// that do not decode pass through untouched. The new content goes to a temp
// file that is renamed over the original, so a fault mid-write cannot leave
// a half-written store behind.
func (s *AccountStore) UpdateBalance(number string, balance decimal.Decimal) error {
	lines, err := s.readLines()
	if err != nil {
		return err
	}

	found := false
	for i, line := range lines {
		acct, err := record.DecodeAccount(line)
		if err != nil || acct.Number != number {
			continue
		}
		acct.Balance = balance
		lines[i] = record.EncodeAccount(acct)
		found = true
		break
	}
	if !found {
		return fmt.Errorf("updating balance for %s: %w", number, ErrAccountNotFound)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "accounts-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp accounts file: %w", err)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(tmp, line); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("writing temp accounts file: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp accounts file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing accounts file: %w", err)
	}
	return nil
}

// readLines returns every non-blank line in file order. A missing file reads
// as empty.
func (s *AccountStore) readLines() ([]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening accounts file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning accounts file: %w", err)
	}
	return lines, nil
}
