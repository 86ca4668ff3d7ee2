// Package config loads client and server settings.
// Precedence: defaults, then the YAML file, then HOMEKEEPER_* environment
// variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "HOMEKEEPER"

var (
	// ErrInvalidConfig indicates a setting outside of its allowed range
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingSecret indicates that the server has no JWT secret configured
	ErrMissingSecret = errors.New("jwt secret is not configured")
)

// LogConfig настройки логирования
type LogConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // text или json
	File       string `mapstructure:"file"`   // пусто: stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Flag описывает привязку флага к ключу конфигурации
type Flag struct {
	Name string // имя флага
	Key  string // ключ viper
}

// newViper создает viper с чтением переменных окружения
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func setLogDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// readFile читает файл конфигурации. Явно указанный файл обязан
// существовать; файл по умолчанию может отсутствовать.
func readFile(v *viper.Viper, file, name string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.homekeeper")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// bindFlags привязывает флаги к ключам. Флаги, которых нет в наборе,
// пропускаются: не все команды объявляют все флаги.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings []Flag) error {
	if flags == nil {
		return nil
	}
	for _, b := range bindings {
		f := flags.Lookup(b.Name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(b.Key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", b.Name, err)
		}
	}
	return nil
}

func (c LogConfig) validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Format)
	}
	return nil
}

func positive(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
	}
	return nil
}

func validURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s %q is not an absolute URL", ErrInvalidConfig, name, raw)
	}
	return nil
}
