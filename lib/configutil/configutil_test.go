package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl  string `json:"base_url"`
	CacheDir string `json:"cache_dir"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{
		// comments are allowed
		base_url: "https://api.test/f1",
		cache_dir: "/tmp/cache",
	}`), 0600)
	require.NoError(t, err)

	out, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://api.test/f1", out.BaseUrl)
	require.Equal(t, "/tmp/cache", out.CacheDir)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{
		base_url: "https://api.test/f1",
		cache_dir: "/tmp/cache",
	}`), 0600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		cache_dir: "/tmp/other",
	}`), 0600)
	require.NoError(t, err)

	out, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://api.test/f1", out.BaseUrl)
	require.Equal(t, "/tmp/other", out.CacheDir)
}

func TestReadConfigMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
