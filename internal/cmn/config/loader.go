package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// ConfigLoader reads and merges configuration from the config file, the
// environment and bound command line flags.
type ConfigLoader struct {
	v          *viper.Viper
	configFile string
	configDir  string
	warnings   []string
}

// ConfigLoaderOption defines a functional option for configuring a ConfigLoader.
type ConfigLoaderOption func(*ConfigLoader)

// WithConfigFile sets an explicit config file. A missing explicit file is
// an error.
func WithConfigFile(configFile string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.configFile = configFile
	}
}

// WithConfigDir overrides the directory searched for config.yaml. It
// defaults to $XDG_CONFIG_HOME/framekit.
func WithConfigDir(dir string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.configDir = dir
	}
}

// NewConfigLoader creates a ConfigLoader with the given viper instance and options.
func NewConfigLoader(v *viper.Viper, options ...ConfigLoaderOption) *ConfigLoader {
	loader := &ConfigLoader{v: v}
	for _, opt := range options {
		opt(loader)
	}
	return loader
}

// Load reads the configuration, applies defaults and environment overrides,
// and returns a validated Config.
func (l *ConfigLoader) Load() (*Config, error) {
	configDir := l.configDir
	if configDir == "" {
		configDir = filepath.Join(xdg.ConfigHome, AppSlug)
	}

	l.configureViper(configDir, l.configFile)
	l.bindEnvironmentVariables()
	l.setViperDefaultValues()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var def Definition
	if err := l.v.Unmarshal(&def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg, err := l.buildConfig(def)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}
	cfg.Paths.ConfigDir = configDir
	cfg.Paths.ConfigFileUsed = l.v.ConfigFileUsed()
	cfg.Warnings = l.warnings

	return cfg, nil
}

func (l *ConfigLoader) buildConfig(def Definition) (*Config, error) {
	cfg := Config{
		Core: Core{
			Debug:     def.Debug,
			LogFormat: l.loadLogFormat(def.LogFormat),
			Quiet:     def.Quiet,
		},
		Frame: Frame{
			FPS:         l.loadFPS(def.FPS),
			Simulate:    def.Simulate,
			MaxDuration: l.parseDuration("maxDuration", def.MaxDuration),
		},
		Paths: Paths{
			Timeline: def.Timeline,
		},
	}
	if cfg.Frame.MaxDuration <= 0 {
		cfg.Frame.MaxDuration = DefaultMaxDuration
	}
	if cfg.Paths.Timeline != "" {
		if abs, err := filepath.Abs(cfg.Paths.Timeline); err == nil {
			cfg.Paths.Timeline = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *ConfigLoader) loadLogFormat(value string) string {
	switch strings.ToLower(value) {
	case "json":
		return "json"
	case "text", "":
		return "text"
	}
	l.warnings = append(l.warnings, fmt.Sprintf("Invalid logFormat value: %s, using text", value))
	return "text"
}

func (l *ConfigLoader) loadFPS(value int) int {
	switch {
	case value <= 0:
		l.warnings = append(l.warnings, fmt.Sprintf("Invalid fps value: %d, using %d", value, DefaultFPS))
		return DefaultFPS
	case value > MaxFPS:
		l.warnings = append(l.warnings, fmt.Sprintf("fps value %d exceeds %d, capping", value, MaxFPS))
		return MaxFPS
	}
	return value
}

// parseDuration parses a duration string, returning zero and adding a warning if invalid.
func (l *ConfigLoader) parseDuration(fieldName, value string) time.Duration {
	if value == "" {
		return 0
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		l.warnings = append(l.warnings, fmt.Sprintf("Invalid %s value: %s", fieldName, value))
		return 0
	}
	return duration
}

func (l *ConfigLoader) setViperDefaultValues() {
	l.v.SetDefault("debug", false)
	l.v.SetDefault("logFormat", "text")
	l.v.SetDefault("quiet", false)
	l.v.SetDefault("fps", DefaultFPS)
	l.v.SetDefault("simulate", false)
	l.v.SetDefault("maxDuration", DefaultMaxDuration.String())
	l.v.SetDefault("timeline", "")
}

var envBindings = []struct {
	key    string
	env    string
	isPath bool
}{
	{key: "debug", env: "DEBUG"},
	{key: "logFormat", env: "LOG_FORMAT"},
	{key: "quiet", env: "QUIET"},
	{key: "fps", env: "FPS"},
	{key: "simulate", env: "SIMULATE"},
	{key: "maxDuration", env: "MAX_DURATION"},
	{key: "timeline", env: "TIMELINE", isPath: true},
}

func (l *ConfigLoader) bindEnvironmentVariables() {
	prefix := strings.ToUpper(AppSlug) + "_"

	for _, b := range envBindings {
		fullEnv := prefix + b.env

		if b.isPath {
			if val := os.Getenv(fullEnv); val != "" {
				if abs, err := filepath.Abs(val); err == nil && abs != val {
					_ = os.Setenv(fullEnv, abs)
				}
			}
		}

		_ = l.v.BindEnv(b.key, fullEnv)
	}
}

func (l *ConfigLoader) configureViper(configDir, configFile string) {
	if configFile == "" {
		l.v.AddConfigPath(configDir)
		l.v.SetConfigName("config")
	} else {
		l.v.SetConfigFile(configFile)
	}
	l.v.SetConfigType("yaml")
	l.v.SetEnvPrefix(strings.ToUpper(AppSlug))
	l.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	l.v.AutomaticEnv()
}
