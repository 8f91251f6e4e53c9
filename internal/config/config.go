package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override (e.g., CONTROLLED_LISTS_SITE)
	EnvPrefix = "CONTROLLED_LISTS"

	// ConfigName is the config file looked up in the home directory
	ConfigName = ".controlled-lists"

	DefaultStore    = "sqlite"
	DefaultDBPath   = "~/.controlled-lists.db"
	DefaultLanguage = "en"
	DefaultRetries  = 3
)

// Stores
const (
	StoreGraphQL = "graphql"
	StoreSQLite  = "sqlite"
)

// Config holds the settings shared by every binary
type Config struct {
	Store    string `mapstructure:"store" validate:"required,oneof=graphql sqlite"`
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Store graphql"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Site     string `mapstructure:"site"`
	Language string `mapstructure:"language"`
	DB       string `mapstructure:"db" validate:"required_if=Store sqlite"`
	Retries  int    `mapstructure:"retries" validate:"gte=0,lte=10"`
	LogLevel string `mapstructure:"loglevel" validate:"omitempty,oneof=debug info warn warning error"`
	LogFile  string `mapstructure:"logfile"`
}

var validate = validator.New()

// Validate checks the config. A missing site is not an error here: the panel
// reports it as a blocking state.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Store == StoreGraphQL {
		if err := validate.Var(c.Endpoint, "url"); err != nil {
			return fmt.Errorf("invalid config: endpoint %q is not a URL", c.Endpoint)
		}
	}
	return nil
}

// SetDefaults registers the default of every key, which also makes each key
// visible to environment overrides
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store", DefaultStore)
	v.SetDefault("endpoint", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("site", "")
	v.SetDefault("language", DefaultLanguage)
	v.SetDefault("db", DefaultDBPath)
	v.SetDefault("retries", DefaultRetries)
	v.SetDefault("loglevel", "info")
	v.SetDefault("logfile", "")
}

// Load reads cfgFile, or ~/.controlled-lists.yaml when empty, then applies
// environment overrides. A missing default config file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	var err error
	if cfg.DB, err = homedir.Expand(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to expand db path: %w", err)
	}
	if cfg.LogFile, err = homedir.Expand(cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to expand log file path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
