package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunShell_CreateAccountAndExit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "First National"))

	in := strings.NewReader("1\nAlice\n100.00\nhunter2\n3\n")
	var out bytes.Buffer

	require.NoError(t, runShell(dir, in, &out))

	assert.Contains(t, out.String(), "Account created")
	assert.Contains(t, out.String(), "Goodbye.")

	// One account line and one opening transaction line were written.
	accounts, err := os.ReadFile(filepath.Join(dir, "accounts.txt"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(accounts)), "\n"), 1)

	transactions, err := os.ReadFile(filepath.Join(dir, "transactions.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(transactions), "Deposit,100")
}

func TestRunShell_InvalidAmountInput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "First National"))

	in := strings.NewReader("1\nAlice\nnot-a-number\n3\n")
	var out bytes.Buffer

	require.NoError(t, runShell(dir, in, &out))
	assert.Contains(t, out.String(), "Please enter a valid amount.")
}

func TestRunShell_ExitsOnEOF(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "First National"))

	in := strings.NewReader("")
	var out bytes.Buffer

	require.NoError(t, runShell(dir, in, &out))
	assert.Contains(t, out.String(), "Goodbye.")
}

func TestRunShell_MissingConfig(t *testing.T) {
	err := runShell(t.TempDir(), strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}
