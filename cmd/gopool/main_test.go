package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "in", "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in", "a.txt"), []byte("red green red\nblue\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in", "sub", "b.txt"), []byte("Red alert\n"), 0o644))
	return dir
}

func TestWordCountCommand(t *testing.T) {
	writeInput(t)

	out, err := execute(t, "wordcount", "--input", "in/**/*.txt", "--top", "2", "--workers", "2")
	require.NoError(t, err)
	assert.Equal(t, "red\t3\nalert\t1\n", out)
}

func TestGrepCommand(t *testing.T) {
	writeInput(t)

	out, err := execute(t, "grep", "--input", "in/**/*.txt", "-e", "red", "-i")
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join("in", "a.txt")+":1:red green red\n"+
			filepath.Join("in", "sub", "b.txt")+":1:Red alert\n",
		out)
}

func TestCommand_Errors(t *testing.T) {
	writeInput(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing input flag", args: []string{"wordcount"}},
		{name: "no matching files", args: []string{"wordcount", "--input", "nothing/*.txt"}},
		{name: "invalid regex", args: []string{"grep", "--input", "in/*.txt", "-e", "(["}},
		{name: "negative workers", args: []string{"wordcount", "--input", "in/*.txt", "--workers", "-1"}},
		{name: "missing config file", args: []string{"--config", "absent.yaml", "wordcount", "--input", "in/*.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestRun_ExitCode(t *testing.T) {
	writeInput(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "success", args: []string{"wordcount", "--input", "in/*.txt"}, want: 0},
		{name: "failure", args: []string{"wordcount"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := os.Args
			t.Cleanup(func() { os.Args = orig })
			os.Args = append([]string{"gopool"}, tt.args...)

			assert.Equal(t, tt.want, run())
		})
	}
}
