package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clientFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("client", pflag.ContinueOnError)
	fs.String("server", "", "")
	fs.String("db", "", "")
	fs.Int("batch-size", 0, "")
	fs.Duration("interval", 0, "")
	return fs
}

func TestLoadClient_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadClient("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "homekeeper.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.Sync.BatchSize)
	assert.Equal(t, 5, cfg.Sync.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Sync.BackoffBase)
	assert.Equal(t, 5*time.Minute, cfg.Sync.BackoffMax)
	assert.Equal(t, 5*time.Minute, cfg.Cache.Fresh)
	assert.Equal(t, 24*time.Hour, cfg.Cache.Expire)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadClient_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())

	file := writeFile(t, "client.yaml", `
server_url: http://file:9000
db_path: /var/lib/homekeeper/file.db
sync:
  batch_size: 10
  interval: 1m
cache:
  fresh: 2m
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := LoadClient(file, nil)
		require.NoError(t, err)
		assert.Equal(t, "http://file:9000", cfg.ServerURL)
		assert.Equal(t, 10, cfg.Sync.BatchSize)
		assert.Equal(t, time.Minute, cfg.Sync.Interval)
		assert.Equal(t, 2*time.Minute, cfg.Cache.Fresh)
		assert.Equal(t, 24*time.Hour, cfg.Cache.Expire, "unset keys keep defaults")
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("HOMEKEEPER_SERVER_URL", "http://env:9001")
		t.Setenv("HOMEKEEPER_SYNC_BATCH_SIZE", "20")

		cfg, err := LoadClient(file, nil)
		require.NoError(t, err)
		assert.Equal(t, "http://env:9001", cfg.ServerURL)
		assert.Equal(t, 20, cfg.Sync.BatchSize)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("HOMEKEEPER_SERVER_URL", "http://env:9001")

		fs := clientFlags()
		require.NoError(t, fs.Parse([]string{"--server", "http://flag:9002", "--batch-size", "7"}))

		cfg, err := LoadClient(file, fs)
		require.NoError(t, err)
		assert.Equal(t, "http://flag:9002", cfg.ServerURL)
		assert.Equal(t, 7, cfg.Sync.BatchSize)
		assert.Equal(t, "/var/lib/homekeeper/file.db", cfg.DBPath, "unchanged flags do not override the file")
	})
}

func TestLoadClient_MissingExplicitFile(t *testing.T) {
	_, err := LoadClient(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestClientConfig_Validate(t *testing.T) {
	valid := func() *ClientConfig {
		return &ClientConfig{
			ServerURL:      "http://localhost:8080",
			DBPath:         "db",
			RequestTimeout: time.Second,
			Sync:           SyncConfig{BatchSize: 1, BackoffBase: time.Second, BackoffMax: time.Minute, Interval: time.Second},
			Cache:          CacheConfig{Fresh: time.Minute, Expire: time.Hour},
			Log:            LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		mutate func(*ClientConfig)
		name   string
	}{
		{name: "relative url", mutate: func(c *ClientConfig) { c.ServerURL = "localhost" }},
		{name: "empty db", mutate: func(c *ClientConfig) { c.DBPath = "" }},
		{name: "zero batch", mutate: func(c *ClientConfig) { c.Sync.BatchSize = 0 }},
		{name: "backoff max below base", mutate: func(c *ClientConfig) { c.Sync.BackoffMax = time.Millisecond }},
		{name: "expire not after fresh", mutate: func(c *ClientConfig) { c.Cache.Expire = c.Cache.Fresh }},
		{name: "bad log level", mutate: func(c *ClientConfig) { c.Log.Level = "loud" }},
		{name: "bad log format", mutate: func(c *ClientConfig) { c.Log.Format = "xml" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadServer(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadServer("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*24*time.Hour, cfg.LedgerRetention)
	assert.Equal(t, time.Hour, cfg.GCInterval)
	assert.ErrorIs(t, cfg.RequireSecret(), ErrMissingSecret)

	t.Setenv("HOMEKEEPER_JWT_SECRET", "s3cret")
	t.Setenv("HOMEKEEPER_LEDGER_RETENTION", "48h")

	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	fs.String("addr", ":8080", "")
	require.NoError(t, fs.Parse([]string{"--addr", "127.0.0.1:9999"}))

	cfg, err = LoadServer("", fs)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.Equal(t, 48*time.Hour, cfg.LedgerRetention)
	assert.NoError(t, cfg.RequireSecret())
}

func TestServerConfig_Validate(t *testing.T) {
	cfg := &ServerConfig{
		Addr:            ":8080",
		DSN:             ":memory:",
		TokenTTL:        time.Hour,
		LedgerRetention: time.Hour,
		GCInterval:      time.Minute,
		ShutdownTimeout: time.Second,
		Log:             LogConfig{Level: "debug", Format: "json"},
	}
	require.NoError(t, cfg.Validate())

	cfg.RateLimit = -1
	cfg.GCInterval = 0
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "rate_limit")
	assert.Contains(t, err.Error(), "gc_interval")
}
