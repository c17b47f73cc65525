package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRepair(t *testing.T, input string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	exitCode = run(args, strings.NewReader(input), &outBuf, &errBuf, false)
	return outBuf.String(), errBuf.String(), exitCode
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{
			name:  "usage examples",
			input: `{"a": 1,,"b": [1,,2, 3,], "c": {"d": 1 "e": ["x" "y"],},}`,
			want:  `{"a": 1, "b": [1, 2, 3], "c": {"d": 1, "e": ["x", "y"]}}` + "\n",
		},
		{
			name:  "original rules",
			input: `{"a": 1,,"b": [1, 2,]}`,
			args:  []string{"-original"},
			want:  `{"a": 1, "b": [1, 2]}` + "\n",
		},
		{
			name:  "original rules do not repair objects",
			input: `{"a": 1,}`,
			args:  []string{"-original"},
			want:  `{"a": 1` + "\n",
		},
		{
			name:  "several documents",
			input: "[1,]\n[2,]\n",
			want:  "[1]\n[2]\n",
		},
		{
			name:  "join",
			input: "[1,]\n{\"a\": 2,}",
			args:  []string{"-join"},
			want:  `[[1], {"a": 2}]` + "\n",
		},
		{
			name:  "max depth",
			input: `[1, 2, {"x": [3, 4,], "y": 2},]`,
			args:  []string{"-max-depth", "1"},
			want:  `[1, 2, {}]` + "\n",
		},
		{
			name:  "colors",
			input: `{"a": true}`,
			args:  []string{"-color", "always"},
			want:  "{\033[34;1m\"a\"\033[0m: \033[33mtrue\033[0m}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, exitCode := runRepair(t, tt.input, tt.args...)
			require.Equal(t, 0, exitCode, "stderr: %s", stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestRunFiles(t *testing.T) {
	f1 := writeFile(t, "a.json", `[1, 2,]`)
	f2 := writeFile(t, "b.json", `{"x": "y",}`)
	stdout, stderr, exitCode := runRepair(t, "", f1, f2)
	require.Equal(t, 0, exitCode, "stderr: %s", stderr)
	assert.Equal(t, "[1, 2]\n{\"x\": \"y\"}\n", stdout)

	_, stderr, exitCode = runRepair(t, "", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "missing.json")
}

func TestRunRulesFile(t *testing.T) {
	table := writeFile(t, "rules.yaml", `
strict: true
rules:
  - description: drop double commas in arrays
    character: ","
    expected: VALUE
    actions:
      - op: skip
`)
	stdout, stderr, exitCode := runRepair(t, `[1,,2]`, "-rules", table)
	require.Equal(t, 0, exitCode, "stderr: %s", stderr)
	assert.Equal(t, "[1, 2]\n", stdout)

	// The table is strict, so the trailing comma is fatal.
	stdout, stderr, exitCode = runRepair(t, `[1,,2,]`, "-rules", table)
	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "[1, 2", stdout)
	assert.Contains(t, stderr, "no rule repairs syntax error")

	_, stderr, exitCode = runRepair(t, `[]`, "-rules", writeFile(t, "bad.yaml", "rules: 3\n"))
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "invalid rule table")

	_, stderr, exitCode = runRepair(t, `[]`, "-rules", table, "-original")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "cannot be used together")
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		args   []string
		stderr string
	}{
		{"strict", `[1 x]`, []string{"-strict"}, "no rule repairs syntax error"},
		{"require complete", `[1, 2`, []string{"-require-complete"}, "incomplete JSON document"},
		{"bad color", `[]`, []string{"-color", "pink"}, "invalid -color value"},
		{"bad flag", `[]`, []string{"-pretty"}, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, exitCode := runRepair(t, tt.input, tt.args...)
			assert.Equal(t, 1, exitCode)
			assert.Contains(t, stderr, tt.stderr)
		})
	}
}

func TestRunHelp(t *testing.T) {
	_, stderr, exitCode := runRepair(t, "", "-h")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stderr, "USAGE:")
}
