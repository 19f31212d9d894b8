package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type cliRun struct {
	stdout string
	stderr string
	err    error
}

func newDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "stockroom.db")
}

// execute runs the full command tree against the database at db.
func execute(t *testing.T, db string, args ...string) cliRun {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--db", db}, args...))

	err := cmd.Execute()
	return cliRun{stdout: out.String(), stderr: errOut.String(), err: err}
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// executeJSON runs a command with --format json, requires success and
// decodes the payload into dst.
func executeJSON(t *testing.T, db string, dst any, args ...string) {
	t.Helper()
	run := execute(t, db, append([]string{"--format", "json"}, args...)...)
	require.NoError(t, run.err, "stdout: %s\nstderr: %s", run.stdout, run.stderr)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(run.stdout), &env), run.stdout)
	require.Equal(t, "ok", env.Status)
	if dst != nil {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
}

// executeJSONError runs a command with --format json, requires failure and
// returns the error envelope.
func executeJSONError(t *testing.T, db string, args ...string) (*CLIError, error) {
	t.Helper()
	run := execute(t, db, append([]string{"--format", "json"}, args...)...)
	require.Error(t, run.err)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(run.stdout), &env), run.stdout)
	require.Equal(t, "error", env.Status)
	require.NotNil(t, env.Error)
	return env.Error, run.err
}
