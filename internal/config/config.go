package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/amosWeiskopf/keywordscan/internal/models"
	"github.com/amosWeiskopf/keywordscan/pkg/crawler"
	"github.com/amosWeiskopf/keywordscan/pkg/extractor"
	"github.com/amosWeiskopf/keywordscan/pkg/keywords"
	"github.com/amosWeiskopf/keywordscan/pkg/reporter"
	"github.com/amosWeiskopf/keywordscan/pkg/scanner"
)

// EnvPrefix prefixes every environment override, e.g. KEYWORDSCAN_CRAWLER_WORKERS
const EnvPrefix = "KEYWORDSCAN"

// Config holds all application configuration
type Config struct {
	// Crawler configuration
	Crawler CrawlerConfig `mapstructure:"crawler"`

	// Scan defaults
	Scan ScanConfig `mapstructure:"scan"`

	// Report output
	Report ReportConfig `mapstructure:"report"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig holds crawler-specific configuration
type CrawlerConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	MaxBodySize int64         `mapstructure:"max_body_size"`
	Workers     int           `mapstructure:"workers"`
	Throttle    time.Duration `mapstructure:"throttle"`
	IncludeSeed bool          `mapstructure:"include_seed"`
	Extraction  string        `mapstructure:"extraction"` // "full", "trafilatura" or "readability"
	Selector    string        `mapstructure:"selector"`
}

// ScanConfig holds matching defaults
type ScanConfig struct {
	Mode           string   `mapstructure:"mode"`
	Keywords       []string `mapstructure:"keywords"`
	KeywordsFile   string   `mapstructure:"keywords_file"`
	KeepZeroCounts bool     `mapstructure:"keep_zero_counts"`
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	Format    string `mapstructure:"format"`
	OutputDir string `mapstructure:"output_dir"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Mode         string        `mapstructure:"mode"` // gin mode: "debug", "release" or "test"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`      // "json" or "text"
	OutputPath string `mapstructure:"output_path"` // "stdout", "stderr" or a file path
}

// Load reads configuration from file, environment and defaults, in that order
// of precedence. An empty configPath searches ./config.yaml, ./config/ and the
// XDG config directory; a missing file there is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "keywordscan"))
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &config, nil
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// defaults always decode
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Crawler defaults
	v.SetDefault("crawler.timeout", crawler.DefaultTimeout.String())
	v.SetDefault("crawler.user_agent", crawler.DefaultUserAgent)
	v.SetDefault("crawler.max_body_size", crawler.DefaultMaxBodySize)
	v.SetDefault("crawler.workers", 1)
	v.SetDefault("crawler.throttle", "0s")
	v.SetDefault("crawler.include_seed", false)
	v.SetDefault("crawler.extraction", string(extractor.StrategyFull))
	v.SetDefault("crawler.selector", "")

	// Scan defaults
	v.SetDefault("scan.mode", string(models.ModeFrequency))
	v.SetDefault("scan.keywords", []string{})
	v.SetDefault("scan.keywords_file", "")
	v.SetDefault("scan.keep_zero_counts", false)

	// Report defaults
	v.SetDefault("report.format", string(reporter.FormatCSV))
	v.SetDefault("report.output_dir", ".")

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.mode", "release")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output_path", "stderr")
}

// bindEnvVars binds environment variables
func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Crawler.Timeout <= 0 {
		return fmt.Errorf("crawler.timeout must be positive")
	}
	if c.Crawler.Workers <= 0 {
		return fmt.Errorf("crawler.workers must be positive")
	}
	if c.Crawler.MaxBodySize <= 0 {
		return fmt.Errorf("crawler.max_body_size must be positive")
	}
	if c.Crawler.Throttle < 0 {
		return fmt.Errorf("crawler.throttle must not be negative")
	}
	if _, err := extractor.ParseStrategy(c.Crawler.Extraction); err != nil {
		return fmt.Errorf("crawler.extraction: %w", err)
	}
	if c.Crawler.Selector != "" {
		if _, err := extractor.WithSelector(c.Crawler.Selector); err != nil {
			return fmt.Errorf("crawler.selector: %w", err)
		}
	}
	if _, err := models.ParseMode(c.Scan.Mode); err != nil {
		return fmt.Errorf("scan.mode: %w", err)
	}
	if _, err := reporter.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("report.format: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text")
	}
	return nil
}

// ScannerConfig converts the crawler and scan sections into scanner defaults.
// A configured keywords file takes precedence over inline keywords.
func (c *Config) ScannerConfig() (scanner.Config, error) {
	strategy, err := extractor.ParseStrategy(c.Crawler.Extraction)
	if err != nil {
		return scanner.Config{}, err
	}
	mode, err := models.ParseMode(c.Scan.Mode)
	if err != nil {
		return scanner.Config{}, err
	}

	list := c.Scan.Keywords
	if c.Scan.KeywordsFile != "" {
		list, err = keywords.LoadFile(c.Scan.KeywordsFile)
		if err != nil {
			return scanner.Config{}, err
		}
	}

	return scanner.Config{
		Crawler: crawler.Options{
			Workers:     c.Crawler.Workers,
			Throttle:    c.Crawler.Throttle,
			IncludeSeed: c.Crawler.IncludeSeed,
			UserAgent:   c.Crawler.UserAgent,
			Timeout:     c.Crawler.Timeout,
			MaxBodySize: c.Crawler.MaxBodySize,
		},
		Extraction:     strategy,
		Selector:       c.Crawler.Selector,
		Mode:           mode,
		Keywords:       list,
		KeepZeroCounts: c.Scan.KeepZeroCounts,
	}, nil
}

// Addr returns the listen address of the API server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
