package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/termscan/config"
)

func newViper() *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "terms_analysis.pdf", cfg.Report.Name)
	assert.Equal(t, "Website Analysis", cfg.Report.Title)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fetch:
  timeout: 3s
  respect_robots: true
report:
  title: Policy Review
store:
  backend: redis
  redis:
    address: redis:6379
`), 0o644))

	t.Setenv("TERMSCAN_REPORT_NAME", "policy.pdf")

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.RespectRobots)
	assert.Equal(t, "Policy Review", cfg.Report.Title)
	assert.Equal(t, "policy.pdf", cfg.Report.Name)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.RedisOptions().Address)
	assert.Equal(t, 3*time.Second, cfg.FetchOptions().Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero timeout", func(c *config.Config) { c.Fetch.Timeout = 0 }},
		{"empty name", func(c *config.Config) { c.Report.Name = "" }},
		{"name with path", func(c *config.Config) { c.Report.Name = "../x.pdf" }},
		{"unknown backend", func(c *config.Config) { c.Store.Backend = "etcd" }},
		{"unknown log format", func(c *config.Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, config.Default().Validate())
}
