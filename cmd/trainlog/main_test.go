package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	body := "[database]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "data", "trainlog.db")) + "\"\n" +
		"[storage]\nbackend = \"" + backend + "\"\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))
	t.Setenv("TRAINLOG_CONFIG", cfg)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestImportExportReport(t *testing.T) {
	dir := setupConfig(t, "sqlite")
	src := filepath.Join(dir, "trainings.json")
	require.NoError(t, os.WriteFile(src, []byte(`[
	 {"id":"t1","type":"Induction","name":"Welcome day","date":"2026-01-10","hours":4,"attendee":"Ana"},
	 {"id":"t2","type":"Nope","name":"Bad","date":"2026-01-11","hours":1,"attendee":"Luis"}
	]`), 0o600))

	out, err := execute(t, "import", src)
	require.NoError(t, err)
	require.Contains(t, out, "imported 1, skipped 0, errors 1")

	out, err = execute(t, "export")
	require.NoError(t, err)
	require.Contains(t, out, "name: Welcome day")

	pdf := filepath.Join(dir, "sheet.pdf")
	out, err = execute(t, "report", "t1", "-o", pdf)
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+pdf)
	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF-"))

	_, err = execute(t, "report", "missing", "-o", filepath.Join(dir, "none.pdf"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "none.pdf"))
	require.True(t, os.IsNotExist(statErr))
}

func TestSeedGData(t *testing.T) {
	dir := setupConfig(t, "gdata")
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg-config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "xdg-data"))
	out, err := execute(t, "seed", "-n", "2")
	if err != nil && strings.Contains(err.Error(), "open gdata") {
		t.Skipf("gdata storage unavailable: %v", err)
	}
	require.NoError(t, err)
	require.Contains(t, out, "added 2 sample trainings")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	t.Setenv("TRAINLOG_CONFIG", path)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[storage]")
	require.Contains(t, string(data), "sqlite")

	_, err = execute(t, "config", "init")
	require.ErrorContains(t, err, "already exists")
	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestUnknownBackendFails(t *testing.T) {
	setupConfig(t, "redis")
	_, err := execute(t, "export")
	require.ErrorContains(t, err, "unknown storage backend")
}

func TestCommandArgs(t *testing.T) {
	setupConfig(t, "sqlite")
	_, err := execute(t, "report")
	require.Error(t, err)
	_, err = execute(t, "import")
	require.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	dir := setupConfig(t, "sqlite")
	out, err := execute(t, "seed", "-n", "1")
	require.NoError(t, err)
	require.Contains(t, out, "added 1 sample trainings")

	path := filepath.Join(dir, "register.yaml")
	out, err = execute(t, "export", "-o", path)
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "trainings:")

	_, err = execute(t, "export", "-o", filepath.Join(dir, "missing", "register.yaml"))
	require.Error(t, err)
}

func TestWriteFileRemovesOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	boom := errors.New("boom")
	err := writeFile(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))

	require.NoError(t, writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "done")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "done", string(data))
}

func TestInfo(t *testing.T) {
	setupConfig(t, "sqlite")
	_, err := execute(t, "seed", "-n", "2")
	require.NoError(t, err)

	out, err := execute(t, "info")
	require.NoError(t, err)
	require.Contains(t, out, "backend: sqlite")
	require.Contains(t, out, "schema: 1\n")
	require.Contains(t, out, "trainings: 2")
	require.NotContains(t, out, "dirty")
}
