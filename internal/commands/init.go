package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teller-dev/teller/internal/config"
	"github.com/teller-dev/teller/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a teller data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "Teller", "bank name")

	return cmd
}

func runInit(dir, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Write teller.yaml.
	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, "teller.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the two empty data files.
	accounts := store.NewAccountStore(filepath.Join(dir, cfg.Storage.AccountsFile))
	if err := accounts.EnsureFile(); err != nil {
		return err
	}
	txlog := store.NewTransactionLog(filepath.Join(dir, cfg.Storage.TransactionsFile))
	if err := txlog.EnsureFile(); err != nil {
		return err
	}

	fmt.Printf("Initialized teller data directory at %s\n", dir)
	return nil
}
