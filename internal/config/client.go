package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ClientConfig настройки клиента
type ClientConfig struct {
	ServerURL      string        `mapstructure:"server_url"`
	DBPath         string        `mapstructure:"db_path"`
	Log            LogConfig     `mapstructure:"log"`
	Cache          CacheConfig   `mapstructure:"cache"`
	Sync           SyncConfig    `mapstructure:"sync"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SyncConfig настройки обработчика синхронизации
type SyncConfig struct {
	BatchSize   int           `mapstructure:"batch_size"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
	BackoffMax  time.Duration `mapstructure:"backoff_max"`
	Interval    time.Duration `mapstructure:"interval"`
}

// CacheConfig пороги свежести кэша
type CacheConfig struct {
	Fresh  time.Duration `mapstructure:"fresh"`
	Expire time.Duration `mapstructure:"expire"`
}

// ClientFlags флаги клиента и их ключи
var ClientFlags = []Flag{
	{Name: "server", Key: "server_url"},
	{Name: "db", Key: "db_path"},
	{Name: "timeout", Key: "request_timeout"},
	{Name: "batch-size", Key: "sync.batch_size"},
	{Name: "interval", Key: "sync.interval"},
	{Name: "log-level", Key: "log.level"},
	{Name: "log-format", Key: "log.format"},
	{Name: "log-file", Key: "log.file"},
}

func setClientDefaults(v *viper.Viper) {
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("db_path", "homekeeper.db")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("sync.batch_size", 50)
	v.SetDefault("sync.max_attempts", 5)
	v.SetDefault("sync.backoff_base", time.Second)
	v.SetDefault("sync.backoff_max", 5*time.Minute)
	v.SetDefault("sync.interval", 30*time.Second)
	v.SetDefault("cache.fresh", 5*time.Minute)
	v.SetDefault("cache.expire", 24*time.Hour)
}

// LoadClient загружает настройки клиента.
// file может быть пустым: тогда ищется client.yaml в текущем каталоге
// и в ~/.homekeeper.
func LoadClient(file string, flags *pflag.FlagSet) (*ClientConfig, error) {
	v := newViper()
	setClientDefaults(v)
	setLogDefaults(v)

	if err := readFile(v, file, "client"); err != nil {
		return nil, err
	}
	if err := bindFlags(v, flags, ClientFlags); err != nil {
		return nil, err
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode client config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет диапазоны значений
func (c *ClientConfig) Validate() error {
	var errs []error
	if err := validURL("server_url", c.ServerURL); err != nil {
		errs = append(errs, err)
	}
	if c.DBPath == "" {
		errs = append(errs, fmt.Errorf("%w: db_path is empty", ErrInvalidConfig))
	}
	if c.Sync.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: sync.batch_size must be positive", ErrInvalidConfig))
	}
	if c.Sync.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("%w: sync.max_attempts must not be negative", ErrInvalidConfig))
	}
	errs = append(errs,
		positive("request_timeout", c.RequestTimeout),
		positive("sync.backoff_base", c.Sync.BackoffBase),
		positive("sync.interval", c.Sync.Interval),
		positive("cache.fresh", c.Cache.Fresh),
	)
	if c.Sync.BackoffMax < c.Sync.BackoffBase {
		errs = append(errs, fmt.Errorf("%w: sync.backoff_max is less than sync.backoff_base", ErrInvalidConfig))
	}
	if c.Cache.Expire <= c.Cache.Fresh {
		errs = append(errs, fmt.Errorf("%w: cache.expire must exceed cache.fresh", ErrInvalidConfig))
	}
	errs = append(errs, c.Log.validate())
	return errors.Join(errs...)
}
