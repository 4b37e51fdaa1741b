package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFileDefaults(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, "app:\n  logLevel: INFO\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 0.5, cfg.Analysis.KeywordWeight)
	assert.Equal(t, 150, cfg.Analysis.MinWords)
	assert.Equal(t, 30*time.Second, cfg.Extraction.Timeout)
	assert.Equal(t, "analysis_updates", cfg.Queue.Exchange)
	assert.True(t, cfg.Store.CircuitBreaker.Enabled)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
	assert.False(t, cfg.Server.TLS.Enabled())
}

func TestLoadConfigFileOverrides(t *testing.T) {
	body := `
analysis:
  keywordWeight: 0.6
  sectionWeight: 0.2
  formatWeight: 0.2
roles:
  file: /etc/resumelens/roles.yaml
  watch: true
store:
  driver: postgres
  databaseURL: postgres://localhost/resumes
cache:
  enabled: true
  ttl: 1h
`
	cfg, err := LoadConfigFile(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Analysis.KeywordWeight)
	assert.Equal(t, 1000, cfg.Analysis.MaxWords)
	assert.True(t, cfg.Roles.Watch)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RESUMELENS_SERVER_PORT", "9999")
	t.Setenv("RESUMELENS_SERVER_APIKEYS", "alpha, beta")
	t.Setenv("RESUMELENS_QUEUE_WORKERS", "8")

	cfg, err := LoadConfigFile(writeConfig(t, "app:\n  defaultFormat: text\n"))
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
	assert.Equal(t, 8, cfg.Queue.Workers)
	assert.Equal(t, "text", cfg.App.DefaultFormat)
}

func TestLoadConfigFileInvalid(t *testing.T) {
	tests := map[string]string{
		"weights do not sum":   "analysis:\n  keywordWeight: 0.9\n",
		"unknown store":        "store:\n  driver: sqlite\n",
		"postgres without url": "store:\n  driver: postgres\n",
		"bad default format":   "app:\n  defaultFormat: xml\n",
		"half tls":             "server:\n  tls:\n    certFile: cert.pem\n",
		"watch without file":   "roles:\n  watch: true\n",
		"zero workers":         "queue:\n  workers: 0\n",
		"cache without addr":   "cache:\n  enabled: true\n  redisAddr: \"\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfigFile(writeConfig(t, body))
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b ,"))
	assert.Nil(t, splitList(""))
}
