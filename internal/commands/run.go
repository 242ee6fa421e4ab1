package commands

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/teller-dev/teller/internal/config"
	"github.com/teller-dev/teller/internal/ledger"
	"github.com/teller-dev/teller/internal/store"
)

func newRunCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an interactive banking session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(config.DataDir(dataDir))
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runShell(absDir, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", ".", "data directory")

	return cmd
}

// runShell drives the menu loop. All decisions live in ledger.Service; this
// loop only prompts, parses, and prints.
func runShell(dir string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(filepath.Join(dir, "teller.yaml"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	accounts := store.NewAccountStore(filepath.Join(dir, cfg.Storage.AccountsFile))
	txlog := store.NewTransactionLog(filepath.Join(dir, cfg.Storage.TransactionsFile))
	if err := accounts.EnsureFile(); err != nil {
		return err
	}
	if err := txlog.EnsureFile(); err != nil {
		return err
	}

	svc := ledger.NewService(accounts, txlog)
	sc := bufio.NewScanner(in)
	var sess *ledger.Session

	fmt.Fprintf(out, "===== %s =====\n", cfg.Bank.Name)
	for {
		if sess.Active() {
			if done := loggedInMenu(svc, sess, sc, out); done {
				sess = nil
			}
			continue
		}
		quit, newSess := mainMenu(svc, sc, out)
		if quit {
			return nil
		}
		sess = newSess
	}
}

func mainMenu(svc *ledger.Service, sc *bufio.Scanner, out io.Writer) (quit bool, sess *ledger.Session) {
	fmt.Fprintln(out, "\n1. Create Account\n2. Login\n3. Exit")
	switch prompt(sc, out, "Enter your choice: ") {
	case "1":
		name := prompt(sc, out, "Enter your name: ")
		amount, err := decimal.NewFromString(prompt(sc, out, "Enter your initial deposit: "))
		if err != nil {
			fmt.Fprintln(out, "Please enter a valid amount.")
			return false, nil
		}
		password := prompt(sc, out, "Enter a password: ")
		number, err := svc.CreateAccount(name, amount, password)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false, nil
		}
		fmt.Fprintf(out, "Account created. Your account number: %s\n", number)
	case "2":
		number := prompt(sc, out, "Enter your account number: ")
		password := prompt(sc, out, "Enter your password: ")
		s, err := svc.Authenticate(number, password)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false, nil
		}
		fmt.Fprintln(out, "Login successful.")
		return false, s
	case "3", "":
		fmt.Fprintln(out, "Goodbye.")
		return true, nil
	default:
		fmt.Fprintln(out, "Invalid choice.")
	}
	return false, nil
}

func loggedInMenu(svc *ledger.Service, sess *ledger.Session, sc *bufio.Scanner, out io.Writer) (loggedOut bool) {
	acct := sess.Account()
	fmt.Fprintf(out, "\nWelcome, %s (account %s, balance $%s)\n", acct.Name, acct.Number, sess.Balance().StringFixed(2))
	fmt.Fprintln(out, "1. Deposit\n2. Withdraw\n3. Transaction History\n4. Logout")

	switch prompt(sc, out, "Enter your choice: ") {
	case "1":
		amount, err := decimal.NewFromString(prompt(sc, out, "Enter amount to deposit: $"))
		if err != nil {
			fmt.Fprintln(out, "Please enter a valid amount.")
			return false
		}
		balance, err := svc.Deposit(sess, amount)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "Deposit successful. Current balance: $%s\n", balance.StringFixed(2))
	case "2":
		amount, err := decimal.NewFromString(prompt(sc, out, "Enter amount to withdraw: $"))
		if err != nil {
			fmt.Fprintln(out, "Please enter a valid amount.")
			return false
		}
		balance, err := svc.Withdraw(sess, amount)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "Withdrawal successful. Current balance: $%s\n", balance.StringFixed(2))
	case "3":
		history, err := svc.History(sess)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		if len(history) == 0 {
			fmt.Fprintln(out, "No transactions found.")
			return false
		}
		for i, tx := range history {
			fmt.Fprintf(out, "%d. %s: $%s on %s\n", i+1, tx.Kind, tx.Amount.StringFixed(2), tx.Date.Format("2006-01-02"))
		}
	case "4", "":
		svc.Logout(sess)
		fmt.Fprintln(out, "Logged out.")
		return true
	default:
		fmt.Fprintln(out, "Invalid choice.")
	}
	return false
}

func prompt(sc *bufio.Scanner, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}
