package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bassista/go_jsonupdate/internal/jsonfile"
	"github.com/bassista/go_jsonupdate/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "JSONUPDATE"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Misc   MiscConfig   `mapstructure:"misc"`
}

type ServerConfig struct {
	Port               int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	ShutDownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
}

// DataConfig describes where documents live and how they are written.
type DataConfig struct {
	Dir           string        `mapstructure:"dir" validate:"required"`
	Indent        int           `mapstructure:"indent" validate:"min=0,max=8"`
	UseTabs       bool          `mapstructure:"use_tabs"`
	DetectIndent  bool          `mapstructure:"detect_indent"`
	FileMode      string        `mapstructure:"file_mode"`
	CacheEnabled  bool          `mapstructure:"cache_enabled"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce" validate:"gte=0"`
}

type MiscConfig struct {
	GinMode  string `mapstructure:"gin_mode" validate:"omitempty,oneof=debug release test"`
	LogLevel string `mapstructure:"log_level"`
}

// WriteOptions converts the data settings to the options used when persisting.
func (d DataConfig) WriteOptions() jsonfile.WriteOptions {
	opts := jsonfile.WriteOptions{DetectIndent: d.DetectIndent}
	switch {
	case d.UseTabs:
		opts.Indent = "\t"
	case d.Indent == 0:
		opts.Compact = true
	default:
		opts.Indent = strings.Repeat(" ", d.Indent)
	}
	if mode, err := parseFileMode(d.FileMode); err == nil {
		opts.Mode = mode
	}
	return opts
}

func parseFileMode(s string) (os.FileMode, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: %w", s, err)
	}
	if v > 0o777 {
		return 0, fmt.Errorf("invalid file mode %q: only permission bits are allowed", s)
	}
	return os.FileMode(v), nil
}

// LoadConfig reads config.yaml from JSONUPDATE_CONFIG_PATH (default ./config),
// applies JSONUPDATE_* environment overrides and validates the result.
// The data directory is created when missing.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithComponent("config").Warnf("cannot read .env file: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getEnvOrDefault(envPrefix+"_CONFIG_PATH", "./config"))

	setDefaults(v)

	// Environment variables like JSONUPDATE_SERVER_PORT override server.port
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		logger.WithComponent("config").Debug("no config file found, using defaults and env vars")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	port, err := getEnvOrViperPort(v, "PORT", "server.port")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = port

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8084)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 2*time.Second)
	v.SetDefault("server.cors_allowed_origins", "*")

	v.SetDefault("data.dir", "./config/data")
	v.SetDefault("data.indent", 2)
	v.SetDefault("data.use_tabs", false)
	v.SetDefault("data.detect_indent", false)
	v.SetDefault("data.file_mode", "")
	v.SetDefault("data.cache_enabled", true)
	v.SetDefault("data.watch_debounce", 200*time.Millisecond)

	v.SetDefault("misc.gin_mode", "release")
	v.SetDefault("misc.log_level", "info")
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := parseFileMode(c.Data.FileMode); err != nil {
		return err
	}
	if c.Misc.LogLevel != "" {
		if _, err := logrus.ParseLevel(strings.ToLower(c.Misc.LogLevel)); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvOrViperPort prefers the plain env var (as set by most PaaS) over viper.
func getEnvOrViperPort(v *viper.Viper, envKey, viperKey string) (int, error) {
	raw := os.Getenv(envKey)
	if raw == "" {
		return v.GetInt(viperKey), nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return port, nil
}
