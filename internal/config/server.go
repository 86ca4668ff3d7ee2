package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ServerConfig настройки сервера
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	DSN             string        `mapstructure:"dsn"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	Log             LogConfig     `mapstructure:"log"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	LedgerRetention time.Duration `mapstructure:"ledger_retention"`
	GCInterval      time.Duration `mapstructure:"gc_interval"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"` // запросов в минуту на клиента, 0 отключает
}

// ServerFlags флаги сервера и их ключи
var ServerFlags = []Flag{
	{Name: "addr", Key: "addr"},
	{Name: "dsn", Key: "dsn"},
	{Name: "jwt-secret", Key: "jwt_secret"},
	{Name: "retention", Key: "ledger_retention"},
	{Name: "log-level", Key: "log.level"},
	{Name: "log-format", Key: "log.format"},
	{Name: "log-file", Key: "log.file"},
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("dsn", "homekeeper-server.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("ledger_retention", 30*24*time.Hour)
	v.SetDefault("gc_interval", time.Hour)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("rate_limit", 600)
}

// LoadServer загружает настройки сервера.
// file может быть пустым: тогда ищется server.yaml.
func LoadServer(file string, flags *pflag.FlagSet) (*ServerConfig, error) {
	v := newViper()
	setServerDefaults(v)
	setLogDefaults(v)

	if err := readFile(v, file, "server"); err != nil {
		return nil, err
	}
	if err := bindFlags(v, flags, ServerFlags); err != nil {
		return nil, err
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет диапазоны значений. Секрет проверяется отдельно
// RequireSecret: служебным командам он не нужен.
func (c *ServerConfig) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: addr is empty", ErrInvalidConfig))
	}
	if c.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: dsn is empty", ErrInvalidConfig))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: rate_limit must not be negative", ErrInvalidConfig))
	}
	errs = append(errs,
		positive("token_ttl", c.TokenTTL),
		positive("ledger_retention", c.LedgerRetention),
		positive("gc_interval", c.GCInterval),
		positive("shutdown_timeout", c.ShutdownTimeout),
		c.Log.validate(),
	)
	return errors.Join(errs...)
}

// RequireSecret проверяет, что задан секрет подписи токенов
func (c *ServerConfig) RequireSecret() error {
	if len(c.JWTSecret) == 0 {
		return ErrMissingSecret
	}
	return nil
}
