package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Mode     string `json:"mode"`
	Password string `json:"password"`
}

func write(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0o644)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMergesLocalOverrides(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "config.json5"), `{mode: "scrape-only", password: ""}`)
	write(t, filepath.Join(dir, "config.local.json5"), `{password: "hunter2"}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "scrape-only", cfg.Mode)
	require.Equal(t, "hunter2", cfg.Password)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "config.local.json5"), `{mode: "scrape-and-upload"}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "scrape-and-upload", cfg.Mode)
}
