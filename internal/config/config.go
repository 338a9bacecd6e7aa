package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/segment"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Sinks
	SQLitePath    string `yaml:"sqlite_path"`
	XLSXExportDir string `yaml:"xlsx_export_dir"`

	// Content provider: a local directory, or an HTTP object store.
	BlobDir     string `yaml:"blob_dir"`
	BlobBaseURL string `yaml:"blob_base_url"`
	BlobToken   string `yaml:"blob_token"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL      time.Duration `yaml:"job_ttl"`
	StatsWindow time.Duration `yaml:"stats_window"`

	// EDI delimiters
	SegmentTerminator string `yaml:"segment_terminator"`
	ElementSeparator  string `yaml:"element_separator"`
	DetectDelimiters  bool   `yaml:"detect_delimiters"`

	// Duplicate-filename cache
	OracleCacheSize int `yaml:"oracle_cache_size"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:              "8090",
		SQLitePath:        "edi.db",
		WorkerCount:       4,
		MaxQueueSize:      100,
		MaxUploadBytes:    52428800, // 50MB
		JobTTL:            1 * time.Hour,
		StatsWindow:       1 * time.Hour,
		SegmentTerminator: "~",
		ElementSeparator:  "*",
		DetectDelimiters:  true,
		OracleCacheSize:   1024,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load builds the configuration from defaults, the YAML file named by
// EDI_CONFIG_FILE if any, and the environment, in increasing precedence.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("EDI_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("EDI_API_KEY", cfg.APIKey)
	cfg.SQLitePath = envOr("SQLITE_PATH", cfg.SQLitePath)
	cfg.XLSXExportDir = envOr("XLSX_EXPORT_DIR", cfg.XLSXExportDir)
	cfg.BlobDir = envOr("BLOB_DIR", cfg.BlobDir)
	cfg.BlobBaseURL = envOr("BLOB_BASE_URL", cfg.BlobBaseURL)
	cfg.BlobToken = envOr("BLOB_TOKEN", cfg.BlobToken)
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)
	cfg.SegmentTerminator = envOr("SEGMENT_TERMINATOR", cfg.SegmentTerminator)
	cfg.ElementSeparator = envOr("ELEMENT_SEPARATOR", cfg.ElementSeparator)
	cfg.DetectDelimiters = envBool("EDI_DETECT_DELIMITERS", cfg.DetectDelimiters)
	cfg.OracleCacheSize = envInt("ORACLE_CACHE_SIZE", cfg.OracleCacheSize)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("LOG_FORMAT", cfg.LogFormat)

	def := Defaults()
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = def.WorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = def.MaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = def.JobTTL
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = def.StatsWindow
	}
	if cfg.OracleCacheSize <= 0 {
		cfg.OracleCacheSize = def.OracleCacheSize
	}

	return cfg, nil
}

// mergeFile overlays the non-zero values of a YAML file onto c. Booleans in
// the file always apply when present.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	// Decoding into a copy keeps fields absent from the file at their
	// current values.
	merged := *c
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	*c = merged
	return nil
}

// Delimiters returns the configured fallback delimiters.
func (c Config) Delimiters() segment.Delimiters {
	return segment.Delimiters{
		Segment: delimiterByte(c.SegmentTerminator),
		Element: delimiterByte(c.ElementSeparator),
	}
}

// delimiterByte accepts a literal character or the escapes \n and \r.
func delimiterByte(s string) byte {
	switch s {
	case `\n`:
		return '\n'
	case `\r`:
		return '\r'
	}
	if len(s) != 1 {
		return 0
	}
	return s[0]
}

func (c Config) Validate() error {
	d := c.Delimiters()
	if d.Segment == 0 {
		return fmt.Errorf("SEGMENT_TERMINATOR must be a single character, got %q", c.SegmentTerminator)
	}
	if d.Element == 0 {
		return fmt.Errorf("ELEMENT_SEPARATOR must be a single character, got %q", c.ElementSeparator)
	}
	if d.Segment == d.Element {
		return errors.New("SEGMENT_TERMINATOR and ELEMENT_SEPARATOR must differ")
	}
	if c.SQLitePath == "" && c.XLSXExportDir == "" {
		return errors.New("at least one of SQLITE_PATH or XLSX_EXPORT_DIR is required")
	}
	if c.BlobDir != "" && c.BlobBaseURL != "" {
		return errors.New("set only one of BLOB_DIR or BLOB_BASE_URL")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// ValidateServer additionally requires what the HTTP service needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return errors.New("EDI_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
