package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/devpulse/schema"
	"go.uber.org/zap/zapcore"
)

// Default values for configuration.
const (
	DefaultBaseURL     = "http://localhost:8000"
	DefaultTimeout     = 15 * time.Second
	DefaultSyncTimeout = 120 * time.Second
	DefaultTrendDays   = 30
	DefaultHourlyDays  = 7
	MaxDays            = 365
	DefaultPrecision   = 1
	DefaultServeAddr   = "127.0.0.1:8080"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	SyncTimeout time.Duration

	UserID string
	Days   int // 0 = per-command default

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	PrefsBackend   schema.DatabaseBackend
	PrefsDBConnect string // Please use env var as this is plaintext

	LogLevel zapcore.Level
	Seed     uint64

	Username    string
	GitHubToken string // Please use env var as this is plaintext
	SyncMode    schema.SyncMode

	ServeAddr string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	BaseURL        string `mapstructure:"base-url"`
	Timeout        string `mapstructure:"timeout"`
	SyncTimeout    string `mapstructure:"sync-timeout"`
	User           string `mapstructure:"user"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Color          string `mapstructure:"color"`
	Width          int    `mapstructure:"width"`
	PrefsBackend   string `mapstructure:"prefs-backend"`
	PrefsDBConnect string `mapstructure:"prefs-db-connect"`
	LogLevel       string `mapstructure:"log-level"`
	Seed           uint64 `mapstructure:"seed"`

	// --- Fields from trendCmd/hourlyCmd.Flags() ---
	Days int `mapstructure:"days"`

	// --- Fields from syncCmd.Flags() ---
	Username    string `mapstructure:"username"`
	GitHubToken string `mapstructure:"github-token"`
	SyncMode    string `mapstructure:"sync-mode"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// DaysOr returns the configured day window, or fallback when unset.
func (c *Config) DaysOr(fallback int) int {
	if c.Days > 0 {
		return c.Days
	}
	return fallback
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processBackendAccess(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validatePrefsBackend(cfg, input); err != nil {
		return err
	}
	return processSyncInputs(cfg, input)
}

// processBackendAccess validates the base URL and request timeouts.
func processBackendAccess(cfg *Config, input *ConfigRawInput) error {
	base := strings.TrimSpace(input.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base-url '%s'. must be an absolute http(s) URL", input.BaseURL)
	}
	cfg.BaseURL = strings.TrimRight(base, "/")

	cfg.Timeout, err = parseDurationOr(input.Timeout, DefaultTimeout)
	if err != nil {
		return fmt.Errorf("invalid --timeout value: %w", err)
	}
	cfg.SyncTimeout, err = parseDurationOr(input.SyncTimeout, DefaultSyncTimeout)
	if err != nil {
		return fmt.Errorf("invalid --sync-timeout value: %w", err)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0 (received %s)", cfg.Timeout)
	}
	if cfg.SyncTimeout < cfg.Timeout {
		return fmt.Errorf("sync-timeout (%s) cannot be shorter than timeout (%s)", cfg.SyncTimeout, cfg.Timeout)
	}
	return nil
}

// validateSimpleInputs processes and validates the presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.UserID = strings.TrimSpace(input.User)
	cfg.OutputFile = input.OutputFile
	cfg.Seed = input.Seed
	cfg.ServeAddr = input.Addr
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}

	cfg.UseColors = true
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	// --- 1. Days Validation ---
	if input.Days < 0 || input.Days > MaxDays {
		return fmt.Errorf("days must be between 1 and %d (received %d)", MaxDays, input.Days)
	}
	cfg.Days = input.Days

	// --- 2. Width Validation ---
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Log Level ---
	level := input.LogLevel
	if level == "" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}
	cfg.LogLevel = lvl

	return nil
}

// validatePrefsBackend validates the preference store configuration.
func validatePrefsBackend(cfg *Config, input *ConfigRawInput) error {
	cfg.PrefsBackend = schema.DatabaseBackend(strings.ToLower(input.PrefsBackend))
	if cfg.PrefsBackend == "" {
		cfg.PrefsBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidPrefsBackends[cfg.PrefsBackend]; !ok {
		return fmt.Errorf("invalid prefs backend '%s'. must be sqlite, mysql, postgresql, none", input.PrefsBackend)
	}
	cfg.PrefsDBConnect = input.PrefsDBConnect
	return ValidateDatabaseConnectionString(cfg.PrefsBackend, cfg.PrefsDBConnect)
}

// processSyncInputs handles the sync command parameters.
func processSyncInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Username = strings.TrimSpace(input.Username)
	cfg.GitHubToken = input.GitHubToken
	if input.SyncMode == "" {
		return nil
	}
	cfg.SyncMode = schema.SyncMode(strings.ToLower(input.SyncMode))
	if _, ok := schema.ValidSyncModes[cfg.SyncMode]; !ok {
		return fmt.Errorf("invalid sync mode '%s'. must be full, incremental, auto", input.SyncMode)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("prefs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("prefs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// parseDurationOr parses a Go duration, or plain seconds, falling back when empty.
func parseDurationOr(s string, fallback time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	d, err := time.ParseDuration(s + "s")
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s'", s)
	}
	return d, nil
}
