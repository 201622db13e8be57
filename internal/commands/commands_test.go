package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billcollector-dev/billcollector/internal/commands"
	"github.com/billcollector-dev/billcollector/internal/ledger"
)

func runBills(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "billcollector.yaml"),
		"--db", filepath.Join(dir, "bills.db"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runBills(t, dir, args...)
	require.NoError(t, err, "billcollector %s: %s", strings.Join(args, " "), out)
	return out
}

func TestInit_CreatesConfigAndDatabase(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "init")
	assert.Contains(t, out, "Wrote config")
	assert.Contains(t, out, "Initialized ledger")

	data, err := os.ReadFile(filepath.Join(dir, "billcollector.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "reverse_on_delete: false")

	_, err = os.Stat(filepath.Join(dir, "bills.db"))
	require.NoError(t, err)

	out = mustRun(t, dir, "init")
	assert.Contains(t, out, "Keeping existing config")
}

func TestAdd_RentSplit(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "add", "rent", "$1,000.00", "--payer", "Armando")
	assert.Contains(t, out, "Added bill #1: rent $1000.00 paid by Armando")
	assert.Contains(t, out, "Armando owes: $-640.00")
	assert.Contains(t, out, "David owes: $320.00")
	assert.Contains(t, out, "Noah owes: $320.00")
}

func TestAdd_InvalidInput(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "groceries", "90", "-p", "armando")

	_, err := runBills(t, dir, "add", "power", "abc", "-p", "David")
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)
	assert.Contains(t, err.Error(), "Invalid price entered")

	_, err = runBills(t, dir, "add", "power", "10")
	require.ErrorIs(t, err, ledger.ErrMissingField)
	assert.Contains(t, err.Error(), "Please fill all fields")

	_, err = runBills(t, dir, "add", "power", "10", "-p", "Zed")
	require.ErrorIs(t, err, ledger.ErrUnknownParticipant)

	out := mustRun(t, dir, "balances")
	assert.Equal(t, "Armando owes: $-60.00\nDavid owes: $30.00\nNoah owes: $30.00\n", out)

	out = mustRun(t, dir, "list")
	assert.Contains(t, out, "groceries")
	assert.NotContains(t, out, "power")
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "list")
	assert.Contains(t, out, "No bills recorded.")

	mustRun(t, dir, "add", "rent", "1000", "-p", "Noah")
	mustRun(t, dir, "add", "internet", "60", "-p", "David")
	mustRun(t, dir, "pay", "1")

	out = mustRun(t, dir, "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "STATUS")
	assert.Contains(t, lines[1], "rent")
	assert.Contains(t, lines[1], "paid")
	assert.Contains(t, lines[2], "internet")
	assert.Contains(t, lines[2], "$60.00")
	assert.Contains(t, lines[2], "active")
}

func TestPay(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "rent", "1000", "-p", "Armando")

	_, err := runBills(t, dir, "pay")
	require.ErrorIs(t, err, ledger.ErrNoSelection)
	assert.Contains(t, err.Error(), "No bill selected")

	_, err = runBills(t, dir, "pay", "abc")
	require.ErrorIs(t, err, ledger.ErrNotFound)

	out := mustRun(t, dir, "pay", "1")
	assert.Contains(t, out, "Marked bill #1 (rent) paid")
	assert.Contains(t, out, "Armando owes: $0.00")

	_, err = runBills(t, dir, "pay", "1")
	require.ErrorIs(t, err, ledger.ErrNotFound)

	out = mustRun(t, dir, "balances")
	assert.Equal(t, "Armando owes: $0.00\nDavid owes: $0.00\nNoah owes: $0.00\n", out)
}

func TestDelete_CheckAndRebuild(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "rent", "1000", "-p", "Armando")
	mustRun(t, dir, "add", "groceries", "90", "-p", "Armando")

	_, err := runBills(t, dir, "delete")
	require.ErrorIs(t, err, ledger.ErrNoSelection)

	out := mustRun(t, dir, "delete", "2")
	assert.Contains(t, out, "Deleted bill #2 (groceries)")

	out = mustRun(t, dir, "balances")
	assert.Contains(t, out, "Armando owes: $-700.00")

	out, err = runBills(t, dir, "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger inconsistent")
	assert.Contains(t, out, "recomputed [Armando]")

	out = mustRun(t, dir, "rebuild")
	assert.Contains(t, out, "Armando owes: $-640.00")

	out = mustRun(t, dir, "check")
	assert.Contains(t, out, "Ledger is consistent.")
}

func TestDelete_ReverseOnDeleteConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := "ledger:\n  reverse_on_delete: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "billcollector.yaml"), []byte(cfg), 0o644))

	mustRun(t, dir, "add", "groceries", "90", "-p", "Armando")
	mustRun(t, dir, "delete", "1")

	out := mustRun(t, dir, "balances")
	assert.Equal(t, "Armando owes: $0.00\nDavid owes: $0.00\nNoah owes: $0.00\n", out)
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "water", "33", "-p", "Noah")

	out := mustRun(t, dir, "reset")
	assert.Equal(t, "Armando owes: $0.00\nDavid owes: $0.00\nNoah owes: $0.00\n", out)

	out = mustRun(t, dir, "list")
	assert.Contains(t, out, "water", "reset keeps the bills")
}

func TestExportImport(t *testing.T) {
	src := t.TempDir()
	mustRun(t, src, "add", "rent", "1000", "-p", "Armando")
	mustRun(t, src, "add", "internet", "60", "-p", "David")
	mustRun(t, src, "add", "water", "45", "-p", "Noah")
	mustRun(t, src, "pay", "2")

	csvPath := filepath.Join(t.TempDir(), "bills.csv")
	out := mustRun(t, src, "export", csvPath)
	assert.Contains(t, out, "Exported 3 bills")

	stdout := mustRun(t, src, "export")
	assert.True(t, strings.HasPrefix(stdout, "id,name,amount,payer,created_at,paid\n"))

	dst := t.TempDir()
	out = mustRun(t, dst, "import", csvPath)
	assert.Contains(t, out, "Imported 3 bills")

	want := mustRun(t, src, "balances")
	got := mustRun(t, dst, "balances")
	assert.Equal(t, want, got)

	list := mustRun(t, dst, "list")
	assert.Contains(t, list, "internet")
	assert.Equal(t, 1, strings.Count(list, "paid\n"))
}

func TestImport_StopsAtInvalidRow(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "in.csv")
	data := "name,amount,payer\nrent,1000,Armando\npower,abc,David\nwater,30,Noah\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0o644))

	_, err := runBills(t, dir, "import", csvPath)
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)
	assert.Contains(t, err.Error(), "row 3")

	out := mustRun(t, dir, "list")
	assert.Contains(t, out, "rent")
	assert.NotContains(t, out, "water")
}

func TestEnvOverridesDatabase(t *testing.T) {
	dir := t.TempDir()
	envDB := filepath.Join(dir, "env.db")
	t.Setenv("BILLCOLLECTOR_DB", envDB)

	cmd := commands.NewRootCommand("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.yaml"), "add", "gas", "12", "-p", "Noah"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(envDB)
	require.NoError(t, err)
}
