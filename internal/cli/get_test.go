package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_RawAbsent(t *testing.T) {
	out := mustExecute(t, "--db", tempDB(t), "get", "missing")
	assert.Equal(t, "(nil)\n", out)
}

func TestGet_TextAbsent(t *testing.T) {
	_, _, err := execute(t, "--db", tempDB(t), "get", "missing", "--as", "text")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "key not found")
}

func TestGet_IntLenient(t *testing.T) {
	db := tempDB(t)
	key := storeValue(t, db, "not a number")

	assert.Equal(t, "0\n", mustExecute(t, "--db", db, "get", key, "--as", "int"))
	assert.Equal(t, "0\n", mustExecute(t, "--db", db, "get", "missing", "--as", "int"))

	_, _, err := execute(t, "--db", db, "get", key, "--as", "int-strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGet_InvalidUTF8(t *testing.T) {
	db := tempDB(t)
	key := storeValue(t, db, "\xff\xfe", "--type", "bytes")

	_, _, err := execute(t, "--db", db, "get", key, "--as", "text")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "cannot be read as text")
}

func TestGet_CallCounter(t *testing.T) {
	db := tempDB(t)
	storeValue(t, db, "a")
	storeValue(t, db, "b")

	assert.Equal(t, "2\n", mustExecute(t, "--db", db, "get", "Cache.Store", "--as", "int"))
}

func TestGet_InvalidMode(t *testing.T) {
	_, _, err := execute(t, "--db", tempDB(t), "get", "k", "--as", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGet_JSON(t *testing.T) {
	db := tempDB(t)
	key := storeValue(t, db, "hello")

	var resp struct {
		Status string    `json:"status"`
		Data   GetResult `json:"data"`
	}

	out := mustExecute(t, "--db", db, "--format", "json", "get", key)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, GetResult{Key: key, Value: "hello", Found: true}, resp.Data)

	out = mustExecute(t, "--db", db, "--format", "json", "get", "missing")
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Data.Found)
}

func TestGet_JSONError(t *testing.T) {
	out, _, err := execute(t, "--db", tempDB(t), "--format", "json", "get", "missing", "--as", "text")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}
