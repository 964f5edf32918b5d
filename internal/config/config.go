package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "AGENDA_SCANNER_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	openAIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	httpAddrEnv     = "HTTP_ADDR"
	defaultInterval = 6 * time.Hour
)

// Config holds high-level settings required across the application.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	HTTP      HTTPConfig      `yaml:"http"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Logging   LoggingConfig   `yaml:"logging"`
	Sources   SourcesConfig   `yaml:"sources"`
}

// DatabaseConfig describes the record store connection. A postgres://
// DSN selects the Postgres driver; anything else is treated as a
// SQLite file path.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig describes the API listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// SchedulerConfig defines how often ingestion runs.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
}

// IntervalDuration parses the configured interval, reverting to the
// default on bad input.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return defaultInterval
	}
	return d
}

// IngestionConfig bounds how far back the adapters look.
type IngestionConfig struct {
	MaxAgeDays int `yaml:"maxAgeDays"`
}

// OpenAIConfig defines how to contact the generation backend. An empty
// APIKey disables generative summarization entirely.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourcesConfig lets deployments point the adapters at mirror hosts.
type SourcesConfig struct {
	WilliamsburgBaseURL string `yaml:"williamsburgBaseUrl"`
	JamesCityBaseURL    string `yaml:"jamesCityBaseUrl"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}
	if override.HTTP.Addr != "" {
		base.HTTP = override.HTTP
	}
	if override.Scheduler.Interval != "" {
		base.Scheduler = override.Scheduler
	}
	if override.Ingestion.MaxAgeDays > 0 {
		base.Ingestion = override.Ingestion
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Sources.WilliamsburgBaseURL != "" {
		base.Sources.WilliamsburgBaseURL = override.Sources.WilliamsburgBaseURL
	}
	if override.Sources.JamesCityBaseURL != "" {
		base.Sources.JamesCityBaseURL = override.Sources.JamesCityBaseURL
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database:  DatabaseConfig{DSN: "agendas.db"},
		HTTP:      HTTPConfig{Addr: ":8080"},
		Scheduler: SchedulerConfig{Interval: "6h"},
		Ingestion: IngestionConfig{MaxAgeDays: 30},
		OpenAI: OpenAIConfig{
			Endpoint: "https://api.openai.com/v1",
			Model:    "gpt-4o-mini",
			APIKey:   "",
		},
		Logging: LoggingConfig{Level: "info"},
		Sources: SourcesConfig{},
	}
}
