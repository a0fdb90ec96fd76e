// Package config loads runtime settings from defaults, an optional YAML file
// and QUIZGATE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "QUIZGATE"

type Config struct {
	DB             string    `mapstructure:"db"`
	Catalog        string    `mapstructure:"catalog"`
	MaxAttempts    int       `mapstructure:"max_attempts" validate:"min=1"`
	PassThreshold  int       `mapstructure:"pass_threshold" validate:"min=1,max=100"`
	TotalCourses   int       `mapstructure:"total_courses" validate:"min=0"`
	SessionFile    string    `mapstructure:"session_file"`
	SignUpDisabled bool      `mapstructure:"signup_disabled"`
	Log            LogConfig `mapstructure:"log"`

	// Path of the config file that was read, empty when none.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File  string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("catalog", "")
	v.SetDefault("max_attempts", 5)
	v.SetDefault("pass_threshold", 50)
	v.SetDefault("total_courses", 0)
	v.SetDefault("session_file", "")
	v.SetDefault("signup_disabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads configuration. An explicit path must exist; otherwise
// $XDG_CONFIG_HOME/quizgate/config.yaml is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Dir returns $XDG_CONFIG_HOME/quizgate, falling back to ~/.config/quizgate.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "quizgate"), nil
}
