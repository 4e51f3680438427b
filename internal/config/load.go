package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	// Container images often ship without zoneinfo.
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCatalogSheet = "list"
	DefaultLogSheet     = "ログ"
	DefaultTimezone     = "Asia/Tokyo"
)

// UnmarshalYAML accepts a Go duration string ("5m") or a bare integer number of seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	s := strings.TrimSpace(node.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	dd, err := parseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return 0, &ConfigError{Code: ConfigErrorInvalidDuration, Value: s, Cause: err}
	}
	return dd, nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		Sheets: SheetsConfig{
			CatalogSheet: DefaultCatalogSheet,
			LogSheet:     DefaultLogSheet,
		},
		Prompt: PromptConfig{Interval: Duration{Duration: 5 * time.Minute}},
		Pending: PendingConfig{
			Backend: PendingBackendMemory,
		},
		Ledger: LedgerConfig{Timezone: DefaultTimezone},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration{Duration: 10 * time.Second},
		},
	}
}

// Load layers defaults, the optional YAML file, then environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("CRAFTLEDGER_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, &ConfigError{Code: ConfigErrorUnreadableConfigFile, Value: cfgPath, Cause: err}
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, &ConfigError{Code: ConfigErrorUnreadableConfigFile, Value: cfgPath, Cause: err}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *Duration) error {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return nil
		}
		d, err := parseDuration(v)
		if err != nil {
			return err
		}
		dst.Duration = d
		return nil
	}

	str("LOG_MODE", &cfg.Env)
	str("DISCORD_TOKEN", &cfg.Discord.Token)
	str("TARGET_CHANNEL_ID", &cfg.Discord.ChannelID)
	str("SPREADSHEET_ID", &cfg.Sheets.SpreadsheetID)
	str("CATALOG_SHEET", &cfg.Sheets.CatalogSheet)
	str("LOG_SHEET", &cfg.Sheets.LogSheet)
	str("GOOGLE_CREDENTIALS_B64", &cfg.Sheets.CredentialsB64)
	str("GOOGLE_APPLICATION_CREDENTIALS_JSON", &cfg.Sheets.CredentialsJSON)
	str("GOOGLE_APPLICATION_CREDENTIALS", &cfg.Sheets.CredentialsFile)
	str("GOOGLE_CREDENTIALS_RESTORE_PATH", &cfg.Sheets.RestoreCredentialsFile)
	str("PENDING_BACKEND", &cfg.Pending.Backend)
	str("REDIS_ADDR", &cfg.Pending.RedisAddr)
	str("REDIS_KEY_PREFIX", &cfg.Pending.RedisKeyPrefix)
	str("LEDGER_TIMEZONE", &cfg.Ledger.Timezone)
	if v := strings.TrimSpace(os.Getenv("ALLOW_INVALID_QUANTITY")); v != "" {
		cfg.Ledger.AllowInvalidQuantity = parseBool(v)
	}
	// HTTP_ADDR=off disables the ops server.
	if v, ok := os.LookupEnv("HTTP_ADDR"); ok {
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, "off") {
			v = ""
		}
		cfg.HTTP.Addr = v
	}

	if err := dur("PROMPT_INTERVAL", &cfg.Prompt.Interval); err != nil {
		return err
	}
	if err := dur("PENDING_TTL", &cfg.Pending.TTL); err != nil {
		return err
	}
	return dur("HTTP_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout)
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	cfg.Discord.Token = strings.TrimSpace(cfg.Discord.Token)
	if cfg.Discord.Token == "" {
		return &ConfigError{Code: ConfigErrorMissingToken}
	}
	cfg.Discord.ChannelID = strings.TrimSpace(cfg.Discord.ChannelID)
	if cfg.Discord.ChannelID == "" {
		return &ConfigError{Code: ConfigErrorMissingChannel}
	}
	cfg.Sheets.SpreadsheetID = strings.TrimSpace(cfg.Sheets.SpreadsheetID)
	if cfg.Sheets.SpreadsheetID == "" {
		return &ConfigError{Code: ConfigErrorMissingSpreadsheet}
	}
	if strings.TrimSpace(cfg.Sheets.CatalogSheet) == "" {
		cfg.Sheets.CatalogSheet = DefaultCatalogSheet
	}
	if strings.TrimSpace(cfg.Sheets.LogSheet) == "" {
		cfg.Sheets.LogSheet = DefaultLogSheet
	}

	if cfg.Prompt.Interval.Duration <= 0 {
		cfg.Prompt.Interval = Duration{Duration: 5 * time.Minute}
	}

	cfg.Pending.Backend = strings.ToLower(strings.TrimSpace(cfg.Pending.Backend))
	switch cfg.Pending.Backend {
	case "", PendingBackendMemory:
		cfg.Pending.Backend = PendingBackendMemory
	case PendingBackendRedis:
		if strings.TrimSpace(cfg.Pending.RedisAddr) == "" {
			return &ConfigError{Code: ConfigErrorMissingRedisAddr}
		}
	default:
		return &ConfigError{Code: ConfigErrorInvalidBackend, Value: cfg.Pending.Backend}
	}
	if cfg.Pending.TTL.Duration < 0 {
		cfg.Pending.TTL = Duration{}
	}

	tz := strings.TrimSpace(cfg.Ledger.Timezone)
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return &ConfigError{Code: ConfigErrorInvalidTimezone, Value: tz, Cause: err}
	}
	cfg.Ledger.Timezone = tz
	cfg.location = loc

	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{Duration: 10 * time.Second}
	}
	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("env=%s channel=%s spreadsheet=%s catalog=%s log=%s backend=%s tz=%s",
		c.Env, c.Discord.ChannelID, c.Sheets.SpreadsheetID, c.Sheets.CatalogSheet, c.Sheets.LogSheet,
		c.Pending.Backend, c.Ledger.Timezone)
}
