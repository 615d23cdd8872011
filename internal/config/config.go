package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Check    CheckConfig    `yaml:"check"`
	API      APIConfig      `yaml:"api"`
}

type AppConfig struct {
	Env  string `yaml:"env"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type CheckConfig struct {
	WhoisTimeout   int    `yaml:"whois_timeout"`    // seconds
	RateLimitDelay int    `yaml:"rate_limit_delay"` // seconds between WHOIS queries
	CronSecret     string `yaml:"cron_secret"`      // allows external schedulers to trigger checks
}

type APIConfig struct {
	Tokens     []APIToken `yaml:"tokens"`
	AllowedIPs []string   `yaml:"allowed_ips"`
}

type APIToken struct {
	Name  string `yaml:"name"`
	Token string `yaml:"token"`
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:  "development",
			Host: "",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "./data/domainwatch.db",
		},
		Check: CheckConfig{
			WhoisTimeout:   10,
			RateLimitDelay: 2,
		},
	}

	// Load from YAML if exists
	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.App.Env = env
	}
	if host := os.Getenv("APP_HOST"); host != "" {
		cfg.App.Host = host
	}
	if port := os.Getenv("APP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.App.Port = p
		}
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if timeout := os.Getenv("WHOIS_TIMEOUT"); timeout != "" {
		if v, err := strconv.Atoi(timeout); err == nil {
			cfg.Check.WhoisTimeout = v
		}
	}
	if delay := os.Getenv("RATE_LIMIT_DELAY"); delay != "" {
		if v, err := strconv.Atoi(delay); err == nil {
			cfg.Check.RateLimitDelay = v
		}
	}
	if secret := os.Getenv("CRON_SECRET"); secret != "" {
		cfg.Check.CronSecret = secret
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// ValidateAPIToken returns the matching token config, or nil.
func (c *Config) ValidateAPIToken(token string) *APIToken {
	if token == "" {
		return nil
	}
	for i := range c.API.Tokens {
		if c.API.Tokens[i].Token == token {
			return &c.API.Tokens[i]
		}
	}
	return nil
}

func (c *CheckConfig) WhoisTimeoutDuration() time.Duration {
	if c.WhoisTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.WhoisTimeout) * time.Second
}

func (c *CheckConfig) RateLimitDelayDuration() time.Duration {
	if c.RateLimitDelay < 0 {
		return 0
	}
	return time.Duration(c.RateLimitDelay) * time.Second
}
