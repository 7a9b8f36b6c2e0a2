package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("TRAINLOG_CONFIG", path)
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	writeConfig(t, "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.Backend())
	require.Equal(t, "trainlog", cfg.Storage.AppName)
	require.Equal(t, 200, cfg.Signature.Height)
	require.Equal(t, 2.0, cfg.Signature.StrokeWidth)
	require.Equal(t, 8, cfg.Signature.CellWidth)
	require.Equal(t, 16, cfg.Signature.CellHeight)
	require.Equal(t, "2006-01-02", cfg.UI.DateFormat)
	require.Equal(t, filepath.Join(os.Getenv("HOME"), ".local", "share", "trainlog", "trainlog.db"), cfg.Database.Path)
}

func TestLoadFileAndEnv(t *testing.T) {
	writeConfig(t, `
[storage]
backend = "gdata"
app_name = "trainlog-test"

[signature]
stroke_width = 3.5
cell_width = 6
`)
	t.Setenv("TRAINLOG_UI_DATE_FORMAT", "02/01/2006")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendGData, cfg.Backend())
	require.Equal(t, "trainlog-test", cfg.Storage.AppName)
	require.Equal(t, 3.5, cfg.Signature.StrokeWidth)
	require.Equal(t, 6, cfg.Signature.CellWidth)
	require.Equal(t, "02/01/2006", cfg.UI.DateFormat)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	writeConfig(t, "[storage]\nbackend = \"postgres\"\n")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "postgres")
}

func TestValidateGeometry(t *testing.T) {
	cfg := Config{
		Storage:   StorageConfig{Backend: BackendSQLite},
		Signature: SignatureConfig{Height: 200, StrokeWidth: 2, CellWidth: 8, CellHeight: 0},
		UI:        UIConfig{DateFormat: "2006-01-02"},
	}
	require.Error(t, cfg.Validate())

	cfg.Signature.CellHeight = 16
	require.NoError(t, cfg.Validate())

	cfg.Signature.StrokeWidth = 0
	require.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Storage.Backend = BackendGData
	cfg.Log.Path = "/tmp/trainlog.log"
	require.NoError(t, Save(cfg))
	require.FileExists(t, path)

	again, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendGData, again.Backend())
	require.Equal(t, "/tmp/trainlog.log", again.Log.Path)
}
