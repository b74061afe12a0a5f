package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: cli_pass
description: Store and read back with fixed keys
flush: true
keys: [key-0001, key-0002]
steps:
  - store: { id: a, value: hello }
  - store: { id: b, value: "7", type: int }
  - get: { ref: a, as: text, expect: hello }
  - get: { ref: b, as: int-strict, expect: "7" }
replay: [Cache.Store]
`

const failingScenario = `
name: cli_fail
keys: [key-0001]
steps:
  - store: { id: a, value: hello }
  - get: { ref: a, as: text, expect: goodbye }
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunScenario_Pass(t *testing.T) {
	out := mustExecute(t, "--db", tempDB(t), "run", writeScenario(t, passingScenario))

	assert.Equal(t, `scenario cli_pass
1. store ("hello") -> key-0001
2. store (7) -> key-0002
3. get text key-0001 -> hello
4. get int-strict key-0002 -> 7
Cache.Store was called 2 times:
Cache.Store(*("hello")) -> key-0001
Cache.Store(*(7)) -> key-0002
PASS
`, out)
}

func TestRunScenario_Fail(t *testing.T) {
	out, _, err := execute(t, "--db", tempDB(t), "run", writeScenario(t, failingScenario))

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL\n")
	assert.Contains(t, out, `get a: expected "goodbye", got "hello"`)
}

func TestRunScenario_JSON(t *testing.T) {
	out := mustExecute(t, "--db", tempDB(t), "--format", "json", "run", writeScenario(t, passingScenario))

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, RunResult{Scenario: "cli_pass", Pass: true, Steps: 4}, resp.Data)
}

func TestRunScenario_Metrics(t *testing.T) {
	_, errOut, err := execute(t, "--db", tempDB(t), "run", "--metrics", writeScenario(t, passingScenario))
	require.NoError(t, err)

	assert.Contains(t, errOut, `kvtrace_operation_calls_total{operation="Cache.Store",outcome="success"} 2`)
	assert.Contains(t, errOut, "# TYPE kvtrace_operation_duration_seconds histogram")
}

func TestRunScenario_InvalidFile(t *testing.T) {
	_, _, err := execute(t, "--db", tempDB(t), "run", writeScenario(t, "name: x\nstepz: []\n"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load scenario")
}

func TestRunScenario_MissingFile(t *testing.T) {
	_, _, err := execute(t, "--db", tempDB(t), "run", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunHelpText(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	assert.Contains(t, runCmd.Long, "Exit codes")
	assert.Contains(t, runCmd.Use, "scenario.yaml")
}
