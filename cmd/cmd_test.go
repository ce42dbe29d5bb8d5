package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sumit0202/hashledger/block"
	"github.com/sumit0202/hashledger/ledger"
	"github.com/sumit0202/hashledger/log"
)

func TestMain(m *testing.M) {
	pterm.DisableOutput()
	log.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

// run executes the command tree against dataDir with logging silenced.
func run(t *testing.T, dataDir string, args ...string) error {
	t.Helper()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs(append([]string{"--datadir", dataDir, "--verbosity", "error"}, args...))
	return rootCmd.Execute()
}

func TestParseTransaction(t *testing.T) {
	tx, err := parseTransaction([]string{"Tom=-3", " Sam = 3"})
	require.NoError(t, err)
	assert.Equal(t, block.Transaction{"Tom": -3, "Sam": 3}, tx)

	for _, bad := range [][]string{
		{"Tom"},
		{"=3"},
		{"Tom=three"},
		{"Tom=1.5"},
		{"Tom=-1", "Tom=1"},
		{"Tom=99999999999999999999"},
	} {
		_, err := parseTransaction(bad)
		assert.True(t, errors.Is(err, ErrBadEntry), "%v: got %v", bad, err)
	}
}

func TestRunDemo(t *testing.T) {
	out := filepath.Join(t.TempDir(), "blocks.json")

	state, err := runDemo(out)
	require.NoError(t, err)
	assert.Equal(t, block.State{"Tom": 6, "Medium": 1, "Sam": 3}, state)

	fromFile, err := validateFile(out)
	require.NoError(t, err)
	assert.Equal(t, state, fromFile)
}

func TestCommandsEndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	exported := filepath.Join(t.TempDir(), "chain.json")

	require.NoError(t, run(t, dataDir, "init", "--alloc", "Tom=10"))
	require.NoError(t, run(t, dataDir, "submit", "Tom=-1", "Medium=1"))
	require.NoError(t, run(t, dataDir, "submit", "Tom=-3", "Sam=3"))

	err := run(t, dataDir, "submit", "Tom=-100", "Sam=100")
	assert.True(t, errors.Is(err, block.ErrInvalidTransaction), "got %v", err)

	require.NoError(t, run(t, dataDir, "balances"))
	require.NoError(t, run(t, dataDir, "show"))
	require.NoError(t, run(t, dataDir, "show", "2"))
	assert.Error(t, run(t, dataDir, "show", "9"))
	require.NoError(t, run(t, dataDir, "validate"))
	require.NoError(t, run(t, dataDir, "export", exported))

	state, err := validateFile(exported)
	require.NoError(t, err)
	assert.Equal(t, block.State{"Tom": 6, "Medium": 1, "Sam": 3}, state)
	require.NoError(t, run(t, dataDir, "validate", exported))

	assert.True(t, errors.Is(run(t, dataDir, "init", "--alloc", "Eve=1"), ledger.ErrAlreadyInitialized))
}

func TestValidateCommandMalformedFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "chain.json")
	require.NoError(t, os.WriteFile(fileName, []byte("42"), 0644))

	err := run(t, t.TempDir(), "validate", fileName)
	require.Error(t, err)
	assert.True(t, errors.Is(err, block.ErrMalformedInput), "got %v", err)
	assert.Contains(t, err.Error(), "not a chain")
}

func TestJournalFlag(t *testing.T) {
	dataDir := t.TempDir()

	require.NoError(t, run(t, dataDir, "--journal", "init", "--alloc", "Tom=10"))
	require.NoError(t, run(t, dataDir, "--journal", "submit", "Tom=-2", "Sam=2"))

	_, err := os.Stat(filepath.Join(dataDir, "ledger.txt"))
	assert.NoError(t, err)
}

func TestUnknownStoreRejected(t *testing.T) {
	err := run(t, t.TempDir(), "--store", "postgres", "balances")
	assert.Error(t, err)
}
