package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"edvisits/visit"
)

// Config holds all configuration for the visit pipeline.
// Values come from a YAML file with environment variable overrides;
// environment variables always win. All cleaning and derivation policy
// (timestamp encodings, complaint vocabulary, age bounds, revenue-loss
// unit, age-group thresholds) lives here rather than in code.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Workers int    `yaml:"workers" env:"WORKERS" env-default:"0"` // 0 = one per CPU

	Database DatabaseConfig `yaml:"database"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// DatabaseConfig holds PostgreSQL settings for the analytics relation.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGUSER" env-default:"postgres"`
	Password string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"PGDATABASE" env-default:"ed_visits"`
	SSLMode  string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConns int32  `yaml:"max_conns" env:"PGMAX_CONNS" env-default:"4"`
}

// ConnectionString returns a PostgreSQL connection URL.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// PipelineConfig holds the cleaning and derivation policy parameters.
type PipelineConfig struct {
	// TimestampLayouts is the ordered list of Go time layouts tried
	// against raw timestamp text; first match wins. Empty means the
	// built-in default order.
	TimestampLayouts []string `yaml:"timestamp_layouts"`

	// CategoryTableFile optionally points at a YAML file mapping dirty
	// complaint variants to canonical labels, replacing the built-in
	// vocabulary.
	CategoryTableFile string `yaml:"category_table_file" env:"CATEGORY_TABLE_FILE" env-default:""`

	MinAge            int     `yaml:"min_age" env:"MIN_AGE" env-default:"1"`
	MaxAge            int     `yaml:"max_age" env:"MAX_AGE" env-default:"120"`
	PatientSentinel   string  `yaml:"patient_sentinel" env:"PATIENT_SENTINEL" env-default:"UNKNOWN_PATIENT"`
	InsuranceSentinel string  `yaml:"insurance_sentinel" env:"INSURANCE_SENTINEL" env-default:"Unknown"`
	RevenueLossAmount float64 `yaml:"revenue_loss_amount" env:"REVENUE_LOSS_AMOUNT" env-default:"5000"`
	PediatricMaxAge   int     `yaml:"pediatric_max_age" env:"PEDIATRIC_MAX_AGE" env-default:"18"`
	SeniorMinAge      int     `yaml:"senior_min_age" env:"SENIOR_MIN_AGE" env-default:"60"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides. A missing file is not an error: defaults plus the
// environment apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read config from env: %w", err)
		}
	}

	if len(cfg.Pipeline.TimestampLayouts) == 0 {
		cfg.Pipeline.TimestampLayouts = visit.DefaultTimestampLayouts()
	}
	return cfg, nil
}

// CategoryTable returns the complaint vocabulary: the override file if
// configured, otherwise the built-in default table.
func (c *Config) CategoryTable() (map[string]string, error) {
	if c.Pipeline.CategoryTableFile == "" {
		return visit.DefaultCategoryTable(), nil
	}
	data, err := os.ReadFile(c.Pipeline.CategoryTableFile)
	if err != nil {
		return nil, fmt.Errorf("read category table %s: %w", c.Pipeline.CategoryTableFile, err)
	}
	table := make(map[string]string)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse category table %s: %w", c.Pipeline.CategoryTableFile, err)
	}
	return table, nil
}

// Validator builds the field validator configured by this config.
func (c *Config) Validator() *visit.FieldValidator {
	return &visit.FieldValidator{
		MinAge:            c.Pipeline.MinAge,
		MaxAge:            c.Pipeline.MaxAge,
		PatientSentinel:   c.Pipeline.PatientSentinel,
		InsuranceSentinel: c.Pipeline.InsuranceSentinel,
	}
}

// DeriveRules builds the derivation rules configured by this config.
func (c *Config) DeriveRules() visit.DeriveRules {
	return visit.DeriveRules{
		RevenueLossAmount: c.Pipeline.RevenueLossAmount,
		PediatricMaxAge:   c.Pipeline.PediatricMaxAge,
		SeniorMinAge:      c.Pipeline.SeniorMinAge,
	}
}
