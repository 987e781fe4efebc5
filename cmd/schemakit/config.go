package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vitalvas/schemakit/openapi"
)

// Config is the schemakit.yaml configuration.
type Config struct {
	LogLevel    string           `mapstructure:"log_level"`
	Info        InfoConfig       `mapstructure:"info"`
	Servers     []openapi.Server `mapstructure:"servers"`
	Definitions []string         `mapstructure:"definitions"`
	Output      OutputConfig     `mapstructure:"output"`
	Serve       ServeConfig      `mapstructure:"serve"`
}

// InfoConfig is the API metadata of generated documents.
type InfoConfig struct {
	Title       string `mapstructure:"title"`
	Version     string `mapstructure:"version"`
	Description string `mapstructure:"description"`
}

// OutputConfig controls how documents are written.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr         string        `mapstructure:"addr"`
	BasePath     string        `mapstructure:"base_path"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	Watch        bool          `mapstructure:"watch"`
	Shutdown     time.Duration `mapstructure:"shutdown_timeout"`
}

func (c InfoConfig) info() openapi.Info {
	return openapi.Info{
		Title:       c.Title,
		Version:     c.Version,
		Description: c.Description,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("info.title", "API")
	v.SetDefault("info.version", "1.0.0")
	v.SetDefault("info.description", "")
	v.SetDefault("definitions", []string{"definitions"})
	v.SetDefault("output.format", "json")
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.base_path", "/docs")
	v.SetDefault("serve.max_body_bytes", 1<<20)
	v.SetDefault("serve.watch", false)
	v.SetDefault("serve.shutdown_timeout", 10*time.Second)
}

// loadConfig reads the config file, when present, and the SCHEMAKIT_
// environment into v. An explicitly named file must exist.
func loadConfig(v *viper.Viper, file string) (Config, error) {
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("schemakit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SCHEMAKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a development logger for the debug level and a
// production logger otherwise.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if lvl == zapcore.DebugLevel {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
