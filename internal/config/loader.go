package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harborview/maya/internal/core"
	"github.com/harborview/maya/internal/logger"
)

// Config represents the structure of config.yaml. Durations are plain
// integers in the file (seconds unless the field name says otherwise).
type Config struct {
	Server struct {
		Addr           string `yaml:"addr"`
		RequestTimeout int    `yaml:"request_timeout"` // seconds
	} `yaml:"server"`

	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`

	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`

	Memory struct {
		ActiveHorizonHours int `yaml:"active_horizon_hours"`
		RetentionDays      int `yaml:"retention_days"`
		SweepIntervalMin   int `yaml:"sweep_interval_minutes"`
		LocalSessions      int `yaml:"local_sessions"`
	} `yaml:"memory"`

	Provider struct {
		BaseURL  string `yaml:"base_url"`
		Timeout  int    `yaml:"timeout"`   // seconds
		CacheTTL int    `yaml:"cache_ttl"` // seconds
	} `yaml:"provider"`

	Knowledge struct {
		DataDir string `yaml:"data_dir"`
		Workers int    `yaml:"workers"`
	} `yaml:"knowledge"`

	Personality struct {
		Mood   float64 `yaml:"mood"`
		Energy float64 `yaml:"energy"`
	} `yaml:"personality"`
}

// Load reads configuration from a YAML file and applies environment
// overrides on top. A missing file is not an error; defaults apply.
func Load(filepath string) (*Config, error) {
	config := Defaults()

	data, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			config.applyEnv()
			return config, nil
		}
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %v", err)
	}

	config.applyEnv()
	return config, nil
}

// Defaults returns a config populated with sensible local-dev values.
func Defaults() *Config {
	config := &Config{}
	config.Server.Addr = ":8080"
	config.Server.RequestTimeout = 10
	config.Log.Level = "info"
	config.Log.Format = "console"
	config.Log.Output = "stdout"
	config.Memory.ActiveHorizonHours = 24
	config.Memory.RetentionDays = 7
	config.Memory.SweepIntervalMin = 60
	config.Memory.LocalSessions = 1024
	config.Provider.Timeout = 3
	config.Provider.CacheTTL = 60
	config.Knowledge.DataDir = "data"
	config.Knowledge.Workers = 4
	config.Personality.Mood = 0.7
	config.Personality.Energy = 0.6
	return config
}

// applyEnv lets deployment environments override the file without
// editing it. Only connection-ish settings get env knobs.
func (c *Config) applyEnv() {
	if v := os.Getenv("MAYA_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("MAYA_REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("MAYA_PROVIDER_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("MAYA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MAYA_DATA_DIR"); v != "" {
		c.Knowledge.DataDir = v
	}
}

// RequestTimeout returns the HTTP handler deadline.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

// ActiveHorizon returns how far back memory counts as current.
func (c *Config) ActiveHorizon() time.Duration {
	return time.Duration(c.Memory.ActiveHorizonHours) * time.Hour
}

// Retention returns how long dormant session memory is kept at all.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Memory.RetentionDays) * 24 * time.Hour
}

// SweepInterval returns how often the retention sweeper runs.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Memory.SweepIntervalMin) * time.Minute
}

// ProviderTimeout returns the per-request deadline for room data fetches.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.Timeout) * time.Second
}

// ProviderCacheTTL returns how long fetched room data stays cached.
func (c *Config) ProviderCacheTTL() time.Duration {
	return time.Duration(c.Provider.CacheTTL) * time.Second
}

// LoggerConfig maps the log section onto the logger package.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:    c.Log.Level,
		Format:   c.Log.Format,
		Output:   c.Log.Output,
		FilePath: c.Log.FilePath,
	}
}

// Flow builds the dialogue flow. The pipeline shape is fixed; the hook
// exists so alternative flows can be wired in tests.
func (c *Config) Flow() core.Flow {
	return core.DefaultFlow()
}
