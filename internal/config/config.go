package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"MP_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"MP_DB_MAX_CONNS" default:"8"`

	RedisURL string `envconfig:"REDIS_URL" default:""`

	AdzunaAppID     string `envconfig:"ADZUNA_APP_ID" default:""`
	AdzunaAppKey    string `envconfig:"ADZUNA_APP_KEY" default:""`
	AdzunaCountries string `envconfig:"ADZUNA_COUNTRIES" default:"gb,us,in,ca,au,de,fr,nl,es,it,br,mx"`
	JoobleAPIKey    string `envconfig:"JOOBLE_API_KEY" default:""`

	CorpusBaseURL string        `envconfig:"CORPUS_BASE_URL" default:""`
	CorpusKey     string        `envconfig:"CORPUS_KEY" default:"artifacts/job_embeddings.csv"`
	CorpusTimeout time.Duration `envconfig:"CORPUS_TIMEOUT" default:"30s"`

	EmbeddingEndpoint string        `envconfig:"EMBEDDING_ENDPOINT" default:"http://127.0.0.1:8844/embed"`
	EmbeddingTimeout  time.Duration `envconfig:"EMBEDDING_TIMEOUT" default:"45s"`

	MatchTopN           int `envconfig:"MATCH_TOP_N" default:"200"`
	IngestIntervalHours int `envconfig:"INGEST_INTERVAL_HOURS" default:"6"`

	HTTPHost string `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("MP_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("MP_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("MP_DB_MIN_CONNS (%d) cannot exceed MP_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.MatchTopN < 1 {
		return fmt.Errorf("MATCH_TOP_N must be >= 1")
	}
	if c.IngestIntervalHours < 1 {
		return fmt.Errorf("INGEST_INTERVAL_HOURS must be >= 1")
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be a valid TCP port, got %d", c.HTTPPort)
	}
	return nil
}

// AdzunaCountryList splits ADZUNA_COUNTRIES into trimmed, lowercased,
// de-duplicated country codes.
func (c *Config) AdzunaCountryList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.AdzunaCountries, ",")
	countries := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		country := strings.ToLower(strings.TrimSpace(part))
		if country == "" {
			continue
		}
		if _, exists := seen[country]; exists {
			continue
		}
		seen[country] = struct{}{}
		countries = append(countries, country)
	}
	return countries
}
