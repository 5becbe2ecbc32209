package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/desk/internal/testutil"
)

// deskEnv is an isolated config/data directory pair with a manual clock.
type deskEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
	clock     *testutil.ManualClock
	refs      *testutil.SequentialReferences
}

func newDeskEnv(t *testing.T) *deskEnv {
	t.Helper()
	dir := t.TempDir()
	return &deskEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
		clock:     testutil.NewManualClock(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)),
		refs:      testutil.NewSequentialReferences(""),
	}
}

// run executes desk with args and returns stdout, stderr, and the error.
func (e *deskEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	opts := &RootOptions{Clock: e.clock, References: e.refs}
	cmd := newRootCommand(opts)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runJSON executes desk with --format json and decodes the envelope.
func (e *deskEnv) runJSON(args ...string) (jsonResponse, error) {
	e.t.Helper()
	stdout, _, err := e.run(append([]string{"--format", "json"}, args...)...)
	var resp jsonResponse
	require.NoError(e.t, json.Unmarshal([]byte(stdout), &resp), "stdout: %s", stdout)
	return resp, err
}

type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

func (r jsonResponse) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v))
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "desk", cmd.Use)
	assert.Contains(t, cmd.Long, "service desk")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"init"}, {"checkin"}, {"checkout"}, {"show"}, {"person", "set"},
		{"active"}, {"completed"}, {"counts"}, {"report"}, {"serve"}, {"test"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config-dir"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("data-dir"))
}

func TestInvalidFormat(t *testing.T) {
	env := newDeskEnv(t)
	_, _, err := env.run("--format", "xml", "counts")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCheckInFlagsRequired(t *testing.T) {
	cmd := NewRootCommand()
	checkin, _, err := cmd.Find([]string{"checkin"})
	require.NoError(t, err)

	for _, name := range []string{"person", "asset"} {
		f := checkin.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, []string{"true"}, f.Annotations["cobra_annotation_bash_completion_one_required_flag"], name)
	}
}

func TestReportFlags(t *testing.T) {
	cmd := NewRootCommand()
	reportCmd, _, err := cmd.Find([]string{"report"})
	require.NoError(t, err)

	for _, name := range []string{"period", "kind", "start", "end", "raw", "fill-gaps"} {
		assert.NotNil(t, reportCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "both", reportCmd.Flags().Lookup("kind").DefValue)
}
