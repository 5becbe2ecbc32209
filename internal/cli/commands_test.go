package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/desk/internal/model"
)

func TestInit_WritesConfigOnce(t *testing.T) {
	env := newDeskEnv(t)

	stdout, _, err := env.run("init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+filepath.Join(env.configDir, "config.yaml"))
	assert.Contains(t, stdout, "(0 people, 0 assets)")
	assert.FileExists(t, filepath.Join(env.configDir, "config.yaml"))
	assert.FileExists(t, filepath.Join(env.dataDir, "desk.db"))

	resp, err := env.runJSON("init")
	require.NoError(t, err)
	var result InitResult
	resp.decode(t, &result)
	assert.False(t, result.ConfigWritten)
	assert.Equal(t, filepath.Join(env.dataDir, "desk.db"), result.Database)
}

func TestInit_InvalidConfig(t *testing.T) {
	env := newDeskEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte("log_level: loud\n"), 0o644))

	_, _, err := env.run("counts")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "log_level")
}

func TestCheckInCheckOut(t *testing.T) {
	env := newDeskEnv(t)

	resp, err := env.runJSON("checkin", "--person", "1001", "--asset", "PC-7", "--issue", "Hardware Failure: won't boot")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)

	var tx model.Transaction
	resp.decode(t, &tx)
	assert.Equal(t, int64(1), tx.ID)
	assert.Equal(t, "ref-0001", tx.Reference)
	assert.Equal(t, model.IssueHardwareFailure, tx.IssueType)
	assert.Equal(t, "won't boot", tx.Issue)
	assert.Equal(t, model.StatusOpen, tx.Status)

	env.clock.Advance(150 * time.Minute)

	stdout, _, err := env.run("checkout", "1")
	require.NoError(t, err)
	assert.Equal(t, "Transaction 1 closed\n", stdout)

	stdout, _, err = env.run("checkout", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "nothing to do")

	resp, err = env.runJSON("checkout", "99")
	require.NoError(t, err)
	var result CheckOutResult
	resp.decode(t, &result)
	assert.Equal(t, CheckOutResult{TransactionID: 99, Closed: false}, result)
}

func TestCheckIn_TextOutput(t *testing.T) {
	env := newDeskEnv(t)

	stdout, _, err := env.run("checkin", "--person", "7", "--asset", "LT-1", "--type", "account lockout", "--issue", "locked out")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Checked in LT-1 for person 7: transaction 1")
	assert.Contains(t, stdout, "Reference: ref-0001")
	assert.Contains(t, stdout, "Issue: Account Lockout: locked out")
}

func TestCheckIn_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"non-numeric person", []string{"--person", "abc", "--asset", "PC-7"}},
		{"zero person", []string{"--person", "0", "--asset", "PC-7"}},
		{"blank asset", []string{"--person", "1", "--asset", "  "}},
		{"unknown type", []string{"--person", "1", "--asset", "PC-7", "--type", "Teleport"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newDeskEnv(t)
			resp, err := env.runJSON(append([]string{"checkin"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, CodeValidation, resp.Error.Code)
		})
	}
}

func TestCheckOut_InvalidID(t *testing.T) {
	env := newDeskEnv(t)
	_, _, err := env.run("checkout", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestShow(t *testing.T) {
	env := newDeskEnv(t)
	_, _, err := env.run("checkin", "--person", "1001", "--asset", "PC-7", "--issue", "Other: sticky keys",
		"--name", "Ada Byron", "--address", "ada@example.com")
	require.NoError(t, err)

	stdout, _, err := env.run("show", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Confirmation:  CN-000001")
	assert.Contains(t, stdout, "Reference:     ref-0001")
	assert.Contains(t, stdout, "Ada Byron")
	assert.Contains(t, stdout, "ada@example.com")
	assert.Contains(t, stdout, "Other: sticky keys")
	assert.Contains(t, stdout, "2024-03-04 09:00:00")
	assert.NotContains(t, stdout, "Checked out")

	resp, err := env.runJSON("show", "1")
	require.NoError(t, err)
	var r model.Receipt
	resp.decode(t, &r)
	assert.Equal(t, model.PersonID(1001), r.Person.ID)
	assert.Equal(t, "PC-7", r.Asset.Tag)
	assert.Equal(t, "CN-000001", r.Confirmation)
}

func TestShow_NotFound(t *testing.T) {
	env := newDeskEnv(t)

	resp, err := env.runJSON("show", "5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}

func TestPersonSet(t *testing.T) {
	env := newDeskEnv(t)

	stdout, _, err := env.run("person", "set", "1001", "--name", "Ada Byron", "--address", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Person 1001 updated\n", stdout)

	resp, err := env.runJSON("person", "set", "1001", "--name", "Someone Else")
	require.NoError(t, err)
	var result PersonResult
	resp.decode(t, &result)
	assert.False(t, result.Applied)
}

func TestActiveCompletedCounts(t *testing.T) {
	env := newDeskEnv(t)
	_, _, err := env.run("person", "set", "2", "--name", "Grace Hopper", "--address", "grace@example.com")
	require.NoError(t, err)

	for _, args := range [][]string{
		{"--person", "1", "--asset", "PC-1", "--issue", "Hardware Failure: fan"},
		{"--person", "2", "--asset", "PC-2", "--issue", "Software Request: compiler"},
		{"--person", "3", "--asset", "PC-3", "--issue", "Performance Issue"},
	} {
		env.clock.Advance(time.Minute)
		_, _, err := env.run(append([]string{"checkin"}, args...)...)
		require.NoError(t, err)
	}
	env.clock.Advance(time.Hour)
	_, _, err = env.run("checkout", "1")
	require.NoError(t, err)

	resp, err := env.runJSON("active")
	require.NoError(t, err)
	var active ListResult
	resp.decode(t, &active)
	assert.Equal(t, 2, active.Count)
	require.Len(t, active.Transactions, 2)
	assert.Equal(t, int64(3), active.Transactions[0].ID, "most recent check-in first")

	resp, err = env.runJSON("active", "--search", "grace")
	require.NoError(t, err)
	var searched ListResult
	resp.decode(t, &searched)
	require.Equal(t, 1, searched.Count)
	assert.Equal(t, "PC-2", searched.Transactions[0].AssetTag)
	assert.Equal(t, "grace", searched.Query)

	stdout, _, err := env.run("completed")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ID  PERSON")
	assert.Contains(t, stdout, "PC-1")
	assert.Contains(t, stdout, "Total: 1 transaction(s)")

	stdout, _, err = env.run("counts")
	require.NoError(t, err)
	assert.Equal(t, "Active: 2\nCompleted: 1\n", stdout)
}

func TestActive_Empty(t *testing.T) {
	env := newDeskEnv(t)
	stdout, _, err := env.run("active")
	require.NoError(t, err)
	assert.Equal(t, "No transactions found.\n", stdout)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate("éééééééééééé", 10))
}
