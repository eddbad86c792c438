// Package config loads the ensemble configuration: the reviewer, the worker
// agents and server/system settings. Values come from a config file
// (config.json by default) overridden by ENSEMBLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go-ensemble/pkg/logger"
	"go-ensemble/pkg/models"
	"strings"
	"time"
)

const (
	EnvPrefix   = "ENSEMBLE"
	PathEnv     = "ENSEMBLE_CONFIG"
	DefaultPath = "config.json"

	minTimeout = 1
	maxTimeout = 600
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Reviewer AgentConfig    `mapstructure:"reviewer_agent"`
	Workers  []AgentConfig  `mapstructure:"worker_agents"`
	System   SystemSettings `mapstructure:"system_settings"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AgentConfig is one backend as written in the config file. Timeout is in
// seconds; zero means system_settings.default_timeout.
type AgentConfig struct {
	Name        string `mapstructure:"name"`
	APIURL      string `mapstructure:"api_url"`
	Model       string `mapstructure:"model"`
	Timeout     int    `mapstructure:"timeout"`
	Description string `mapstructure:"description"`
}

type SystemSettings struct {
	// MaxRetries is accepted for compatibility with existing config files.
	// Backend calls are never retried.
	MaxRetries     int    `mapstructure:"max_retries"`
	DefaultTimeout int    `mapstructure:"default_timeout"`
	Stream         bool   `mapstructure:"stream"`
	LogLevel       string `mapstructure:"log_level"`
	PrettyLogs     bool   `mapstructure:"pretty_logs"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("system_settings.max_retries", 1)
	v.SetDefault("system_settings.default_timeout", 60)
	v.SetDefault("system_settings.stream", false)
	v.SetDefault("system_settings.log_level", "INFO")
	v.SetDefault("system_settings.pretty_logs", false)
}

// Load reads the config file at path (DefaultPath when empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.System.MaxRetries > 0 {
		log.Debug().Int("max_retries", cfg.System.MaxRetries).Msg("max_retries is set but backend calls are not retried")
	}
	return cfg, nil
}

// Validate checks the whole config and fills agent timeouts left at zero.
func (c *Config) Validate() error {
	if len(c.Workers) == 0 {
		return errors.New("config: at least one worker agent is required")
	}
	if c.System.DefaultTimeout < minTimeout || c.System.DefaultTimeout > maxTimeout {
		return fmt.Errorf("config: system_settings.default_timeout must be between %d and %d seconds", minTimeout, maxTimeout)
	}
	if c.System.MaxRetries < 0 {
		return errors.New("config: system_settings.max_retries must not be negative")
	}
	if _, err := logger.ParseLevel(c.System.LogLevel); err != nil {
		return fmt.Errorf("config: system_settings.log_level: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range", c.Server.Port)
	}

	if err := c.Reviewer.validate("reviewer_agent", c.System.DefaultTimeout); err != nil {
		return err
	}
	for i := range c.Workers {
		if err := c.Workers[i].validate(fmt.Sprintf("worker_agents[%d]", i), c.System.DefaultTimeout); err != nil {
			return err
		}
	}
	return nil
}

func (a *AgentConfig) validate(field string, defaultTimeout int) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("config: %s.name is required", field)
	}
	if strings.TrimSpace(a.Model) == "" {
		return fmt.Errorf("config: %s.model is required", field)
	}
	if !strings.HasPrefix(a.APIURL, "http://") && !strings.HasPrefix(a.APIURL, "https://") {
		return fmt.Errorf("config: %s.api_url must start with http:// or https://", field)
	}
	if !strings.HasSuffix(a.APIURL, "/api/chat") {
		log.Warn().Str(logger.AgentNameField, a.Name).Str("api_url", a.APIURL).Msg("api_url usually ends with /api/chat")
	}
	if a.Timeout == 0 {
		a.Timeout = defaultTimeout
	}
	if a.Timeout < minTimeout || a.Timeout > maxTimeout {
		return fmt.Errorf("config: %s.timeout must be between %d and %d seconds", field, minTimeout, maxTimeout)
	}
	return nil
}

func (a AgentConfig) Agent() models.AgentConfig {
	return models.AgentConfig{
		Name:     a.Name,
		Endpoint: a.APIURL,
		Model:    a.Model,
		Timeout:  time.Duration(a.Timeout) * time.Second,
	}
}

func (a AgentConfig) Info() models.AgentInfo {
	return models.AgentInfo{Name: a.Name, Model: a.Model, APIURL: a.APIURL}
}

func (c *Config) ReviewerAgent() models.AgentConfig {
	return c.Reviewer.Agent()
}

func (c *Config) WorkerAgents() []models.AgentConfig {
	out := make([]models.AgentConfig, 0, len(c.Workers))
	for _, w := range c.Workers {
		out = append(out, w.Agent())
	}
	return out
}

// Roster describes the configured agents for the agents endpoint.
func (c *Config) Roster() models.AgentsResponse {
	workers := make([]models.AgentInfo, 0, len(c.Workers))
	for _, w := range c.Workers {
		workers = append(workers, w.Info())
	}
	return models.AgentsResponse{Reviewer: c.Reviewer.Info(), Workers: workers}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
