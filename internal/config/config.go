// Package config loads CLI configuration from defaults, an optional YAML
// file, a .env file and HCLUST_-prefixed environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hupe1980/hclust/linkage"
)

// EnvPrefix prefixes every environment variable, e.g. HCLUST_CLUSTER_METHOD.
const EnvPrefix = "HCLUST"

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	Cluster    Cluster    `mapstructure:"cluster"`
	Dendrogram Dendrogram `mapstructure:"dendrogram"`
	Data       Data       `mapstructure:"data"`
}

// App holds general application configuration
type App struct {
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	ConfigFile string `mapstructure:"config_file"`
}

// Cluster holds pipeline configuration
type Cluster struct {
	Method        string `mapstructure:"method"`
	Ks            []int  `mapstructure:"ks"`
	Workers       int    `mapstructure:"workers"`
	MemoryLimitMB int64  `mapstructure:"memory_limit_mb"`
	MissingValues bool   `mapstructure:"missing_values"`

	// AssignmentsOut is the export path of the cluster labels.
	AssignmentsOut string `mapstructure:"assignments_out"`
}

// Dendrogram holds layout configuration
type Dendrogram struct {
	TruncateLevel  int     `mapstructure:"truncate_level"`
	ColorThreshold float64 `mapstructure:"color_threshold"`
	Output         string  `mapstructure:"output"`
}

// Data holds input configuration
type Data struct {
	Path string `mapstructure:"path"`
}

// Load reads the configuration. configFile may be empty, in which case
// .hclust.yaml is looked up in the working and home directories.
func Load(configFile string) (*Config, error) {
	return load(viper.New(), configFile)
}

func load(v *viper.Viper, configFile string) (*Config, error) {
	// Load .env file if it exists; existing variables win.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".hclust")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.App.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("cluster.method", linkage.Complete.String())
	v.SetDefault("cluster.ks", []int{3, 4})
	v.SetDefault("cluster.workers", 0)
	v.SetDefault("cluster.memory_limit_mb", 0)
	v.SetDefault("cluster.missing_values", false)
	v.SetDefault("cluster.assignments_out", "")

	v.SetDefault("dendrogram.truncate_level", 10)
	v.SetDefault("dendrogram.color_threshold", 0.24)
	v.SetDefault("dendrogram.output", "")

	v.SetDefault("data.path", "")
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ParseLevel(c.App.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.App.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q, supported: text, json", c.App.LogFormat))
	}

	if _, err := linkage.ParseMethod(c.Cluster.Method); err != nil {
		errs = append(errs, err)
	}
	if len(c.Cluster.Ks) == 0 {
		errs = append(errs, errors.New("cluster.ks must list at least one cluster count"))
	}
	for _, k := range c.Cluster.Ks {
		if k < 1 {
			errs = append(errs, fmt.Errorf("cluster count %d must be positive", k))
		}
	}
	if c.Cluster.MemoryLimitMB < 0 {
		errs = append(errs, errors.New("cluster.memory_limit_mb must not be negative"))
	}

	if c.Dendrogram.TruncateLevel < 0 {
		errs = append(errs, errors.New("dendrogram.truncate_level must not be negative"))
	}

	return errors.Join(errs...)
}

// Method returns the configured linkage method.
func (c *Config) Method() linkage.Method {
	m, _ := linkage.ParseMethod(c.Cluster.Method) // validated on load
	return m
}

// MemoryLimitBytes converts cluster.memory_limit_mb.
func (c *Config) MemoryLimitBytes() int64 {
	return c.Cluster.MemoryLimitMB << 20
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return l, nil
}
