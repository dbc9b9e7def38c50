package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultPathPresent(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "streakledger"), 0o755))
	require.NoError(t, os.WriteFile(DefaultPath(), []byte(`default_sort = "longest"`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "longest", cfg.DefaultSort)
	assert.Equal(t, "Done", cfg.DoneStatus)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
default_format = "json"
done_status = "完了"
start_date = "2024-03-01"
unknown_key = 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.DefaultFormat)
	assert.Equal(t, "完了", cfg.DoneStatus)
	assert.Equal(t, "Archived", cfg.ArchivedStatus)
	assert.Equal(t, "2024-03-01", cfg.StartDate)
	assert.Equal(t, "current", cfg.DefaultSort)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
default_sort: longest
archived_status: Trashed
end_date: "2024年3月31日"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "longest", cfg.DefaultSort)
	assert.Equal(t, "Trashed", cfg.ArchivedStatus)
	assert.Equal(t, "2024年3月31日", cfg.EndDate)
	assert.Equal(t, "Done", cfg.DoneStatus)
}

func TestLoad_EmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err, "explicit path must exist")

	_, err = Load(writeFile(t, "config.json", "{}"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.toml", "default_sort = "))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "default_sort: [unterminated"))
	assert.Error(t, err)
}
