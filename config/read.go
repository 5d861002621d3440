package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "MAILER"
)

// legacyEnv maps config keys to the flat environment names older
// deployments of the contact form used.
var legacyEnv = map[string]string{
	"email.host":     "EmailHost",
	"email.port":     "Port",
	"email.username": "EmailUsername",
	"email.password": "EmailPassword",
}

// ReadConfig loads config.yaml from configPath (optional) and applies
// environment overrides. The returned viper instance is the one the config
// was decoded from and can be handed to Watch.
func ReadConfig(configPath string) (*Config, *viper.Viper, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigFormat)
	v.AddConfigPath(configPath)

	// e.g. MAILER_EMAIL_HOST overrides email.host
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envKey, legacy)
	}

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "production")

	v.SetDefault("email.host", "")
	v.SetDefault("email.port", "587")
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.insecure_skip_verify", false)

	v.SetDefault("observability.service_name", "simorq_mailer")
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output.stdout", true)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
