package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Dataset DatasetConfig `yaml:"dataset" envconfig:"DATASET"`
	Chart   ChartConfig   `yaml:"chart" envconfig:"CHART"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Metrics MetricsConfig `yaml:"metrics" envconfig:"METRICS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"` // json | text
	Output   string `yaml:"output" envconfig:"OUTPUT"` // console | file | both
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DatasetConfig selects the snapshots and rows to chart
type DatasetConfig struct {
	RepoPath  string `yaml:"repo_path" envconfig:"REPO_PATH"`
	StartDate string `yaml:"start_date" envconfig:"START_DATE"`
	EndDate   string `yaml:"end_date" envconfig:"END_DATE"`
	Metric    string `yaml:"metric" envconfig:"METRIC"`
	Country   string `yaml:"country" envconfig:"COUNTRY"`
	State     string `yaml:"state" envconfig:"STATE"`
	County    string `yaml:"county" envconfig:"COUNTY"`
}

// ChartConfig contains chart rendering options
type ChartConfig struct {
	Title     string  `yaml:"title" envconfig:"TITLE"`
	YLabel    string  `yaml:"y_label" envconfig:"Y_LABEL"`
	YLimit    float64 `yaml:"y_limit" envconfig:"Y_LIMIT"`
	Format    string  `yaml:"format" envconfig:"FORMAT"`
	Width     float64 `yaml:"width" envconfig:"WIDTH"`
	Height    float64 `yaml:"height" envconfig:"HEIGHT"`
	OutputDir string  `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// ExportConfig lists additional series exports (csv, xlsx)
type ExportConfig struct {
	Formats []string `yaml:"formats" envconfig:"FORMATS"`
	// CSVBOM prefixes CSV exports with a UTF-8 byte order mark for Excel
	CSVBOM bool `yaml:"csv_bom" envconfig:"CSV_BOM"`
}

// MetricsConfig controls the run metrics textfile. No file is written
// when File is empty.
type MetricsConfig struct {
	File string `yaml:"file" envconfig:"FILE"`
}

// Load builds the configuration from defaults, then the YAML config file
// if one exists, then environment variables. Later sources win.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate normalizes and checks the configuration
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}

	c.Logging.Output = strings.ToLower(c.Logging.Output)
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %q", c.Logging.Output)
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if c.Dataset.RepoPath == "" {
		return fmt.Errorf("dataset repo path must not be empty")
	}

	c.Chart.Format = strings.ToLower(strings.TrimPrefix(c.Chart.Format, "."))
	if !slices.Contains(ChartFormats, c.Chart.Format) {
		return fmt.Errorf("unsupported chart format %q (want one of %v)", c.Chart.Format, ChartFormats)
	}
	if c.Chart.YLimit < 0 {
		return fmt.Errorf("chart y limit must not be negative")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart width and height must be positive")
	}

	formats := make([]string, 0, len(c.Export.Formats))
	for _, f := range c.Export.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if !slices.Contains(ExportFormats, f) {
			return fmt.Errorf("unsupported export format %q (want one of %v)", f, ExportFormats)
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	c.Export.Formats = formats

	return nil
}

// IsLatest reports whether an end date is the latest keyword, in any case
func IsLatest(date string) bool {
	return strings.EqualFold(strings.TrimSpace(date), LatestDate)
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"covidchart.yaml",
		"configs/covidchart.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Dataset: DatasetConfig{
			RepoPath:  DefaultRepoPath,
			StartDate: DefaultStartDate,
			EndDate:   DefaultEndDate,
			Metric:    DefaultMetric,
			Country:   DefaultCountry,
		},
		Chart: ChartConfig{
			Format:    DefaultFormat,
			Width:     DefaultChartWidth,
			Height:    DefaultChartHeight,
			OutputDir: ".",
		},
	}
}
