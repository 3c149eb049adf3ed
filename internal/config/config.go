package config

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/catalog"
	"github.com/alexanderramin/aiscribe/internal/db"
	"github.com/alexanderramin/aiscribe/internal/llm"
	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration, read from AISCRIBE_* variables.
type Config struct {
	DBPath       string `envconfig:"DB_PATH"`
	NoArchive    bool   `envconfig:"NO_ARCHIVE" default:"false"`
	CatalogPath  string `envconfig:"CATALOG"`
	MaxQuestions int    `envconfig:"MAX_QUESTIONS" default:"5"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"warn"`
	LogEncoding  string `envconfig:"LOG_ENCODING" default:"console"`

	LLM llm.LLMConfig `ignored:"true"`
}

// Load reads the process and LLM configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("AISCRIBE", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.MaxQuestions <= 0 {
		return nil, fmt.Errorf("AISCRIBE_MAX_QUESTIONS must be positive, got %d", cfg.MaxQuestions)
	}
	cfg.LogEncoding = strings.ToLower(strings.TrimSpace(cfg.LogEncoding))

	llmCfg, err := llm.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.LLM = llmCfg
	return &cfg, nil
}

// ResolveDBPath returns the configured database path or the per-user default.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	return db.DefaultPath()
}

// LoadCatalog returns the question catalogue from CatalogPath, or the
// embedded one when no path is set.
func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(c.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", c.CatalogPath, err)
	}
	return cat, nil
}
