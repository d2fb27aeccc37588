// Package config provides YAML-based configuration loading for uplink.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root application configuration. Exactly one link
// variant and one request variant are selected here; validate rejects
// anything else at startup.
type Config struct {
	// AppName optional logical name of the agent
	AppName string `mapstructure:"app_name"`

	// Log holds logging (debug sink) configuration
	Log LogConfig `mapstructure:"log"`

	// Link selects and tunes the transport backend
	Link LinkConfig `mapstructure:"link"`

	// Request selects and tunes the request backend
	Request RequestConfig `mapstructure:"request"`
}

// LogConfig defines debug sink settings.
type LogConfig struct {
	// Enabled turns the sink off entirely when false; the core runs
	// identically either way.
	Enabled bool `mapstructure:"enabled"`
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: list of outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool `mapstructure:"enable"`
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// Default returns a Config populated with the documented defaults.
func Default() *Config {
	return &Config{
		AppName: "uplink-agent",
		Log: LogConfig{
			Enabled:     true,
			Level:       "info",
			Format:      "console",
			Outputs:     []string{"stdout"},
			Development: true,
			Rotation: RotationConfig{
				Enable:     false,
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Link: LinkConfig{
			Kind:          "wired",
			MAC:           "DE:AD:DE:AD:BE:EF",
			LocalAddr:     "192.168.1.155",
			SettleMS:      1000,
			AssocPollMS:   500,
			DialTimeoutMS: 5000,
		},
		Request: RequestConfig{
			Kind:         "http",
			Method:       "GET",
			ReplyWaitMS:  100,
			RetryDelayMS: 1000,
		},
	}
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment
// overrides. Environment variables use the prefix UPLINK and `.`/`-`
// are replaced with `_`. Example: UPLINK_REQUEST_HOST=httpbin.org
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("UPLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("app_name", cfg.AppName)
	v.SetDefault("log.enabled", cfg.Log.Enabled)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("link.kind", cfg.Link.Kind)
	v.SetDefault("link.mac", cfg.Link.MAC)
	v.SetDefault("link.local_addr", cfg.Link.LocalAddr)
	v.SetDefault("link.settle_ms", cfg.Link.SettleMS)
	v.SetDefault("link.assoc_poll_ms", cfg.Link.AssocPollMS)
	v.SetDefault("link.assoc_max_polls", cfg.Link.AssocMaxPolls)
	v.SetDefault("link.dial_timeout_ms", cfg.Link.DialTimeoutMS)
	v.SetDefault("request.kind", cfg.Request.Kind)
	v.SetDefault("request.method", cfg.Request.Method)
	v.SetDefault("request.reply_wait_ms", cfg.Request.ReplyWaitMS)
	v.SetDefault("request.retry_delay_ms", cfg.Request.RetryDelayMS)
	v.SetDefault("request.max_attempts", cfg.Request.MaxAttempts)

	// Choose config file
	if path == "" {
		if envPath := os.Getenv("UPLINK_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search common locations with base name `uplink`
		v.SetConfigName("uplink")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".uplink"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch lvl {
	case "debug", "info", "warn", "warning", "error":
		// ok
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stdout"}
	}

	// Exactly one variant per axis; unknown kinds are startup errors.
	c.Link.Kind = strings.ToLower(strings.TrimSpace(c.Link.Kind))
	switch c.Link.Kind {
	case "wired", "ethernet":
	case "wireless", "wifi":
		if c.Link.SSID == "" || c.Link.Passphrase == "" {
			return fmt.Errorf("link.ssid and link.passphrase are mandatory for the wireless link")
		}
	default:
		return fmt.Errorf("invalid link.kind: %q", c.Link.Kind)
	}
	if _, err := c.Link.HardwareAddr(); err != nil {
		return err
	}
	if _, err := c.Link.StaticAddr(); err != nil {
		return err
	}

	c.Request.Kind = strings.ToLower(strings.TrimSpace(c.Request.Kind))
	if strings.TrimSpace(c.Request.Host) == "" {
		return fmt.Errorf("request.host is mandatory")
	}
	c.Request.Path = strings.TrimPrefix(c.Request.Path, "/")
	switch c.Request.Kind {
	case "http":
		if c.Request.Port == 0 {
			c.Request.Port = 80
		}
		c.Request.Method = strings.ToUpper(strings.TrimSpace(c.Request.Method))
		if c.Request.Method == "" {
			c.Request.Method = "GET"
		}
	case "publish", "mqtt":
		if c.Request.Port == 0 {
			c.Request.Port = 1883
		}
		if c.Request.Username == "" || c.Request.Password == "" {
			return fmt.Errorf("request.username and request.password are mandatory for the publish backend")
		}
	default:
		return fmt.Errorf("invalid request.kind: %q", c.Request.Kind)
	}
	return nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
