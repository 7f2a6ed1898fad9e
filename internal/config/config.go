// Package config loads application configuration and sets up logging.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Places    PlacesConfig    `yaml:"places" mapstructure:"places"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Mail      MailConfig      `yaml:"mail" mapstructure:"mail"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// PlacesConfig holds Places API credentials and limits.
type PlacesConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// DiscoveryConfig configures the discovery and enrichment run.
type DiscoveryConfig struct {
	Query            string `yaml:"query" mapstructure:"query"`
	MaxResults       int    `yaml:"max_results" mapstructure:"max_results"`
	PageDelaySecs    int    `yaml:"page_delay_secs" mapstructure:"page_delay_secs"`
	FetchTimeoutSecs int    `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
}

// PageDelay returns the inter-page pause as a duration.
func (d DiscoveryConfig) PageDelay() time.Duration {
	return time.Duration(d.PageDelaySecs) * time.Second
}

// FetchTimeout returns the website fetch timeout as a duration.
func (d DiscoveryConfig) FetchTimeout() time.Duration {
	return time.Duration(d.FetchTimeoutSecs) * time.Second
}

// StoreConfig configures the workbook store.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// MailConfig holds SMTP settings and the campaign message surface.
type MailConfig struct {
	Host       string `yaml:"host" mapstructure:"host"`
	Port       int    `yaml:"port" mapstructure:"port"`
	Account    string `yaml:"account" mapstructure:"account"`
	Password   string `yaml:"password" mapstructure:"password"`
	From       string `yaml:"from" mapstructure:"from"`
	Subject    string `yaml:"subject" mapstructure:"subject"`
	BodyPath   string `yaml:"body_path" mapstructure:"body_path"`
	ResumePath string `yaml:"resume_path" mapstructure:"resume_path"`
	BaseDir    string `yaml:"base_dir" mapstructure:"base_dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("APPLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("places.rate_limit", 10)
	v.SetDefault("discovery.max_results", 300)
	v.SetDefault("discovery.page_delay_secs", 2)
	v.SetDefault("discovery.fetch_timeout_secs", 10)
	v.SetDefault("store.path", "resume/places_data.xlsx")
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 465)
	v.SetDefault("mail.base_dir", "resume")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the named command scope has everything it needs.
// Options have no interdependencies; only non-emptiness is enforced.
func (c *Config) Validate(scope string) error {
	var missing []string

	require := func(name, val string) {
		if val == "" {
			missing = append(missing, name)
		}
	}

	switch scope {
	case "discover":
		require("places.key", c.Places.Key)
		require("discovery.query", c.Discovery.Query)
		require("store.path", c.Store.Path)
	case "outreach":
		require("mail.host", c.Mail.Host)
		require("mail.account", c.Mail.Account)
		require("mail.password", c.Mail.Password)
		require("mail.subject", c.Mail.Subject)
		require("mail.resume_path", c.Mail.ResumePath)
		require("store.path", c.Store.Path)
	case "status":
		require("store.path", c.Store.Path)
	default:
		return eris.Errorf("config: unknown scope %q", scope)
	}

	if len(missing) > 0 {
		return eris.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
