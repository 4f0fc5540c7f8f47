package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFileTOML(t *testing.T) {
	path := writeTempConfig(t, "report.toml", `
interval = "week"
start_at = "2023-01-02"
timestamp_field = "created_at"
report_type = ["csv", "pdf"]
`)

	cfg, err := NewConfigRepository().LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "week", cfg.Interval)
	assert.Equal(t, "2023-01-02", cfg.StartAt)
	assert.Equal(t, "created_at", cfg.TimestampField)
	assert.Equal(t, []string{"csv", "pdf"}, cfg.ReportType)
}

func TestLoadConfigFileYAML(t *testing.T) {
	path := writeTempConfig(t, "report.yaml", `
interval: month
dsn: mysql://u:p@localhost:3306/db
table: users
activation_field: last_seen_at
`)

	cfg, err := NewConfigRepository().LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "month", cfg.Interval)
	assert.Equal(t, "mysql://u:p@localhost:3306/db", cfg.DSN)
	assert.Equal(t, "users", cfg.Table)
	assert.Equal(t, "last_seen_at", cfg.ActivationField)
}

func TestLoadConfigFileJSON(t *testing.T) {
	path := writeTempConfig(t, "report.json", `{"interval": "day", "separator": ";"}`)

	cfg, err := NewConfigRepository().LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "day", cfg.Interval)
	assert.Equal(t, ";", cfg.Separator)
}

func TestLoadConfigFileRejectsUnknownKeys(t *testing.T) {
	cases := map[string]string{
		"report.toml": "intervall = \"day\"\n",
		"report.yaml": "intervall: day\n",
		"report.json": `{"intervall": "day"}`,
	}
	for name, content := range cases {
		path := writeTempConfig(t, name, content)
		_, err := NewConfigRepository().LoadConfigFile(path)
		assert.Error(t, err, name)
	}
}

func TestLoadConfigFileUnsupportedFormat(t *testing.T) {
	path := writeTempConfig(t, "report.ini", "interval=day\n")
	_, err := NewConfigRepository().LoadConfigFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format")
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := NewConfigRepository().LoadConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadConfigFileDirectory(t *testing.T) {
	_, err := NewConfigRepository().LoadConfigFile(t.TempDir())
	require.Error(t, err)
}
