package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/habedi/sessionctl/client"
	"github.com/habedi/sessionctl/db"
	"github.com/habedi/sessionctl/pkg/validation"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. SESSIONCTL_API_BASE_URL.
const EnvPrefix = "sessionctl"

// Config is the runtime configuration of sessionctl.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
}

// APIConfig describes the remote authentication endpoints.
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MePath      string        `mapstructure:"me_path"`
	LoginPath   string        `mapstructure:"login_path"`
	RefreshPath string        `mapstructure:"refresh_path"`
}

// StorageConfig selects where the credential pair is persisted.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"`
	Path        string `mapstructure:"path"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

// Defaults returns the built-in configuration values keyed by viper path.
func Defaults() map[string]any {
	return map[string]any{
		"api.base_url":         "http://localhost:8080",
		"api.timeout":          client.DefaultTimeout,
		"api.me_path":          client.DefaultMePath,
		"api.login_path":       client.DefaultLoginPath,
		"api.refresh_path":     client.DefaultRefreshPath,
		"storage.backend":      "sqlite",
		"storage.path":         db.DefaultPath,
		"storage.redis_addr":   "localhost:6379",
		"storage.redis_prefix": "sessionctl:",
	}
}

// FlagBindings maps cobra flag names onto configuration keys.
var FlagBindings = map[string]string{
	"base-url":   "api.base_url",
	"timeout":    "api.timeout",
	"storage":    "storage.backend",
	"db-path":    "storage.path",
	"redis-addr": "storage.redis_addr",
}

// Load resolves the configuration from defaults, an optional YAML file,
// SESSIONCTL_* environment variables and, when flags is non-nil, the flags
// listed in FlagBindings. An explicit cfgFile must exist.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("sessionctl")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "sessionctl"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields the rest of the program relies on.
func (c *Config) Validate() error {
	if err := validation.ValidateBaseURL(c.API.BaseURL); err != nil {
		return err
	}
	if err := validation.ValidateBackend(c.Storage.Backend); err != nil {
		return err
	}
	if c.Storage.Backend == "sqlite" {
		return validation.ValidateNonEmptyString("storage.path", c.Storage.Path)
	}
	return validation.ValidateNonEmptyString("storage.redis_addr", c.Storage.RedisAddr)
}

// NewClient builds a credential client from the API section.
func (c *Config) NewClient() *client.Client {
	cl := client.New(c.API.BaseURL, c.API.Timeout)
	if c.API.MePath != "" {
		cl.MePath = c.API.MePath
	}
	if c.API.LoginPath != "" {
		cl.LoginPath = c.API.LoginPath
	}
	if c.API.RefreshPath != "" {
		cl.RefreshPath = c.API.RefreshPath
	}
	return cl
}
