package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the harvest pipeline configuration.
type Config struct {
	Feed    FeedConfig    `yaml:"feed"`
	Paths   PathsConfig   `yaml:"paths"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Resume  ResumeConfig  `yaml:"resume"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// FeedConfig holds upstream catalog feed settings.
type FeedConfig struct {
	BaseURL        string `yaml:"base_url"`
	CategoriesPath string `yaml:"categories_path"`
	FeaturesPath   string `yaml:"features_path"`
	IndexPath      string `yaml:"index_path"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	TimeoutSec     int    `yaml:"timeout_sec"`          // per product request
	DownloadSec    int    `yaml:"download_timeout_sec"` // bulk reference downloads
	Retries        int    `yaml:"retries"`
	RatePerSec     int    `yaml:"rate_per_sec"` // 0 = unlimited
}

// PathsConfig holds local filesystem layout settings.
type PathsConfig struct {
	DataDir     string `yaml:"data_dir"`
	TargetsFile string `yaml:"targets_file"`
}

// FetchConfig holds product fetch settings.
type FetchConfig struct {
	Workers          int `yaml:"workers"`
	LimitPerCategory int `yaml:"limit_per_category"` // 0 = unlimited
	MinIndexSizeMB   int `yaml:"min_index_size_mb"`  // smaller index files are treated as corrupt
}

// ResumeConfig selects the seen-ID store used to skip already fetched products.
type ResumeConfig struct {
	Driver    string   `yaml:"driver"` // files, valkey (default: files)
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Feed.CategoriesPath == "" {
		c.Feed.CategoriesPath = "export/freexml/refs/CategoriesList.xml.gz"
	}
	if c.Feed.FeaturesPath == "" {
		c.Feed.FeaturesPath = "export/freexml/refs/FeaturesList.xml.gz"
	}
	if c.Feed.IndexPath == "" {
		c.Feed.IndexPath = "export/freexml/EN/files.index.xml.gz"
	}
	if c.Feed.TimeoutSec <= 0 {
		c.Feed.TimeoutSec = 5
	}
	if c.Feed.DownloadSec <= 0 {
		c.Feed.DownloadSec = 1800
	}
	if c.Feed.Retries <= 0 {
		c.Feed.Retries = 2
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = "data"
	}
	if c.Paths.TargetsFile == "" {
		c.Paths.TargetsFile = "targets.txt"
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = 16
	}
	if c.Fetch.MinIndexSizeMB <= 0 {
		c.Fetch.MinIndexSizeMB = 5
	}
	if c.Resume.Driver == "" {
		c.Resume.Driver = "files"
	}
	if c.Resume.KeyPrefix == "" {
		c.Resume.KeyPrefix = "harvest:"
	}
	if c.Metrics.Port <= 0 {
		c.Metrics.Port = 9090
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Feed.BaseURL == "" {
		return fmt.Errorf("feed.base_url is required")
	}
	if !strings.HasPrefix(c.Feed.BaseURL, "http://") && !strings.HasPrefix(c.Feed.BaseURL, "https://") {
		return fmt.Errorf("feed.base_url must be an absolute http(s) URL, got %q", c.Feed.BaseURL)
	}
	if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}
	switch c.Resume.Driver {
	case "files":
		// ok
	case "valkey":
		if len(c.Resume.Addrs) == 0 {
			return fmt.Errorf("resume.addrs is required for the valkey driver")
		}
	default:
		return fmt.Errorf("resume.driver must be \"files\" or \"valkey\", got %q", c.Resume.Driver)
	}
	return nil
}

// HasCredentials reports whether upstream basic-auth credentials are configured.
func (c *Config) HasCredentials() bool {
	return c.Feed.Username != "" && c.Feed.Password != ""
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
