package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level teller.yaml configuration.
type Config struct {
	Bank    BankConfig    `yaml:"bank"`
	Storage StorageConfig `yaml:"storage"`
}

// BankConfig identifies the bank the data directory belongs to.
type BankConfig struct {
	Name string `yaml:"name"`
}

// StorageConfig names the two backing files, relative to the data directory.
type StorageConfig struct {
	AccountsFile     string `yaml:"accounts_file"`
	TransactionsFile string `yaml:"transactions_file"`
}

// Load reads a teller.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard file names for a new data
// directory.
func Default(bankName string) *Config {
	return &Config{
		Bank: BankConfig{
			Name: bankName,
		},
		Storage: StorageConfig{
			AccountsFile:     "accounts.txt",
			TransactionsFile: "transactions.txt",
		},
	}
}

// DataDir resolves the data directory: the TELLER_DATA_DIR environment
// variable wins over the flag value. A .env file in the working directory is
// honored when present.
func DataDir(flagValue string) string {
	_ = godotenv.Load()
	if dir := os.Getenv("TELLER_DATA_DIR"); dir != "" {
		return dir
	}
	return flagValue
}
