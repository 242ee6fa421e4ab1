package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/teller-dev/teller/internal/model"
	"github.com/teller-dev/teller/internal/record"
)

// TransactionLog owns transactions.txt. The file is append-only: history is
// extended one line at a time and never rewritten.
type TransactionLog struct {
	path string
}

// NewTransactionLog creates a log over the given file path.
func NewTransactionLog(path string) *TransactionLog {
	return &TransactionLog{path: path}
}

// Path returns the backing file path.
func (l *TransactionLog) Path() string {
	return l.path
}

// EnsureFile creates an empty transactions file if none exists.
func (l *TransactionLog) EnsureFile() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating transactions file: %w", err)
	}
	return f.Close()
}

// Append writes one transaction line, creating the file if needed.
func (l *TransactionLog) Append(tx model.Transaction) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening transactions file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, record.EncodeTransaction(tx)); err != nil {
		return fmt.Errorf("writing transaction: %w", err)
	}
	return nil
}

// HistoryFor returns every transaction for an account in file order, which
// is chronological because the log only ever grows at the end. Blank and
// undecodable lines are skipped. A missing file reads as an empty history.
func (l *TransactionLog) HistoryFor(number string) ([]model.Transaction, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions file: %w", err)
	}
	defer f.Close()

	var history []model.Transaction
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tx, err := record.DecodeTransaction(line)
		if err != nil {
			continue
		}
		if tx.AccountNumber == number {
			history = append(history, tx)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning transactions file: %w", err)
	}
	return history, nil
}
