package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestProcess_WritesCSVToStdout(t *testing.T) {
	input := writeInput(t, "report.csv",
		"a,b,\"[Widget, x] [Error: disk full (FullSyndicate)\"\n"+
			"a,b,nothing to see\n")

	stdout, _, err := runCLI(t, "process", input)
	require.NoError(t, err)
	assert.Equal(t, "Item,Error\nWidget,disk full\n", stdout)
}

func TestProcess_WritesOutputFile(t *testing.T) {
	input := writeInput(t, "report.csv", "a,b,\"[Bolt, 3] [Error: bad size\"\n")
	out := filepath.Join(t.TempDir(), "processed_data.csv")

	stdout, _, err := runCLI(t, "process", input, "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Item,Error\nBolt,bad size\n", string(data))
}

func TestProcess_NotEnoughColumns(t *testing.T) {
	input := writeInput(t, "narrow.csv", "a,b\nc,d\n")

	stdout, stderr, err := runCLI(t, "process", input)
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "The uploaded file doesn't have enough columns.\n", stderr)
}

func TestProcess_UnsupportedFormat(t *testing.T) {
	input := writeInput(t, "notes.txt", "a,b,c\n")

	_, stderr, err := runCLI(t, "process", input)
	require.Error(t, err)
	assert.Contains(t, stderr, "FILE006")
}

func TestProcess_MissingFile(t *testing.T) {
	_, stderr, err := runCLI(t, "process", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, stderr, "open input")
}

func TestProcess_RequiresOneArg(t *testing.T) {
	_, _, err := runCLI(t, "process")
	assert.Error(t, err)
}
