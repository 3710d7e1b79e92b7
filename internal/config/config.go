package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	LLM           LLMConfig
	Credentials   CredentialsConfig
	GoogleService GoogleServiceConfig
	Logging       LoggingConfig
}

type ServerConfig struct {
	Port            int
	AllowedOrigins  []string
	RateLimitPerSec float64
	RateLimitBurst  int
}

type LLMConfig struct {
	Provider        string
	Model           string
	Temperature     float32
	Timeout         time.Duration
	BaseUrl         string
	MockFailureRate float64
}

type CredentialsConfig struct {
	Backend  string
	Path     string
	Bucket   string
	Prefix   string
	JsonKey  string
	CacheTTL time.Duration
}

type GoogleServiceConfig struct {
	ProjectId    string
	JsonKey      string
	PushInterval time.Duration
}

type LoggingConfig struct {
	Level       string
	Development bool
}

func LoadConfig(configName string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.promptimprover")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowedOrigins", []string{})
	v.SetDefault("server.rateLimitPerSec", 0)
	v.SetDefault("server.rateLimitBurst", 5)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-1.5-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.baseUrl", "")
	v.SetDefault("llm.mockFailureRate", 0)

	v.SetDefault("credentials.backend", "file")
	v.SetDefault("credentials.path", "$HOME/.promptimprover/credentials.yaml")
	v.SetDefault("credentials.bucket", "")
	v.SetDefault("credentials.prefix", "")
	v.SetDefault("credentials.jsonKey", "")
	v.SetDefault("credentials.cacheTTL", 30*time.Second)

	v.SetDefault("googleService.projectId", "")
	v.SetDefault("googleService.jsonKey", "")
	v.SetDefault("googleService.pushInterval", 60*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai", "claude", "mock":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}

	switch c.Credentials.Backend {
	case "file", "gcs", "memory":
	default:
		return fmt.Errorf("unsupported credentials backend %q", c.Credentials.Backend)
	}

	if c.Credentials.Backend == "gcs" && c.Credentials.Bucket == "" {
		return fmt.Errorf("credentials.bucket is required for the gcs backend")
	}

	if c.GoogleService.ProjectId != "" && c.GoogleService.PushInterval <= 0 {
		return fmt.Errorf("googleService.pushInterval must be positive")
	}

	if c.LLM.MockFailureRate < 0 || c.LLM.MockFailureRate > 1 {
		return fmt.Errorf("llm.mockFailureRate must be within [0, 1]")
	}

	return nil
}
