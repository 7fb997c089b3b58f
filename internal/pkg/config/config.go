package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	WMS        WMSConfig        `mapstructure:"wms"`
	Projection ProjectionConfig `mapstructure:"projection"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// WMSConfig points at the map server whose capabilities document describes
// the project.
type WMSConfig struct {
	URL      string `mapstructure:"url"`
	Timeout  int    `mapstructure:"timeout"`   // seconds
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds, capabilities payload cache
}

// ProjectionConfig is the project's declared CRS. Ref may be empty, which
// disables axis-order reconciliation. Proj4 is the base parameter string
// without any axis override.
type ProjectionConfig struct {
	Ref   string `mapstructure:"ref"`
	Proj4 string `mapstructure:"proj4"`
	// LinearUnits disables geodesic distance correction in point-resolution
	// computations, so displayed scale values are taken at face value.
	LinearUnits bool `mapstructure:"linear_units"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("wms.url", "")
	v.SetDefault("wms.timeout", 15)
	v.SetDefault("wms.cache_ttl", 300)
	v.SetDefault("projection.ref", "")
	v.SetDefault("projection.proj4", "")
	v.SetDefault("projection.linear_units", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.endpoint", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GEOBRIDGE_WMS_URL → wms.url
	v.SetEnvPrefix("GEOBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.WMS.Timeout <= 0 {
		errs = append(errs, "wms.timeout must be positive")
	}
	if c.WMS.CacheTTL < 0 {
		errs = append(errs, "wms.cache_ttl must not be negative")
	}
	// An empty projection.ref disables reconciliation, but a configured ref
	// needs a parameter string to register.
	if c.Projection.Ref != "" && c.Projection.Proj4 == "" {
		errs = append(errs, "projection.proj4 is required when projection.ref is set")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
