package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rxpool/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rxpool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Pool.Retries)
	assert.Equal(t, "auto", cfg.Scan.Compression)
	assert.Equal(t, "none", cfg.Tracing.Exporter)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Scan, cfg.Scan)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndSubstitution(t *testing.T) {
	t.Setenv("RXPOOL_TEST_ADDR", "127.0.0.1:9999")
	path := writeFile(t, `
log:
  level: debug
  encoding: console
pool:
  retries: 4
regex:
  caseless: true
  extended: true
scan:
  workers: 3
  compression: zstd
metrics:
  enabled: true
  addr: ${RXPOOL_TEST_ADDR}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding)
	assert.Equal(t, 4, cfg.Pool.Retries)
	assert.True(t, cfg.Regex.Caseless)
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.Equal(t, 1<<20, cfg.Scan.MaxLineBytes, "unset keys keep defaults")
	assert.Equal(t, "127.0.0.1:9999", cfg.Metrics.Addr)

	opts := cfg.RegexOptions()
	assert.True(t, opts.Caseless)
	assert.True(t, opts.Extended)
	assert.Equal(t, 4, opts.Pool.Retries)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "pool:\n  retries: 4\n")
	t.Setenv("RXPOOL_POOL_RETRIES", "7")
	t.Setenv("RXPOOL_SCAN_WORKERS", "2")
	t.Setenv("RXPOOL_REGEX_MULTI_LINE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pool.Retries)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.True(t, cfg.Regex.MultiLine)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	_, err = Load(writeFile(t, "pool: [unclosed"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = Load(writeFile(t, "pool:\n  retries: 0\n"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"pool retries", func(c *Config) { c.Pool.Retries = -1 }},
		{"workers", func(c *Config) { c.Scan.Workers = 0 }},
		{"max line", func(c *Config) { c.Scan.MaxLineBytes = 0 }},
		{"compression", func(c *Config) { c.Scan.Compression = "rar" }},
		{"metrics addr", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Addr = "" }},
		{"tracing exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	cfg := Default()
	cfg.Pool.Retries = 3
	cfg.Regex.Ungreedy = true
	cfg.Tracing.Exporter = "stdout"

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Pool.Retries)
	assert.True(t, got.Regex.Ungreedy)
	assert.Equal(t, "stdout", got.Tracing.Exporter)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("RXPOOL_SUB_A", "alpha")
	got := substituteEnvVars([]byte("a: ${RXPOOL_SUB_A}\nb: ${RXPOOL_SUB_UNSET}\nc: $plain\nd: ${open"))
	assert.Equal(t, "a: alpha\nb: \nc: $plain\nd: ${open", string(got))
}
