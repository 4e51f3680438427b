package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CRAFTLEDGER_CONFIG_PATH", "")
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("TARGET_CHANNEL_ID", "1365277821743927296")
	t.Setenv("SPREADSHEET_ID", "sheet-1")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sheets.CatalogSheet != "list" || cfg.Sheets.LogSheet != "ログ" {
		t.Fatalf("sheets: got catalog=%q log=%q", cfg.Sheets.CatalogSheet, cfg.Sheets.LogSheet)
	}
	if cfg.Prompt.Interval.Duration != 5*time.Minute {
		t.Fatalf("interval: want=5m got=%v", cfg.Prompt.Interval.Duration)
	}
	if cfg.Pending.Backend != "memory" || cfg.Pending.TTL.Duration != 0 {
		t.Fatalf("pending: got=%+v", cfg.Pending)
	}
	if cfg.Location().String() != "Asia/Tokyo" {
		t.Fatalf("location: want=Asia/Tokyo got=%s", cfg.Location())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PROMPT_INTERVAL", "90s")
	t.Setenv("PENDING_TTL", "600")
	t.Setenv("LEDGER_TIMEZONE", "UTC")
	t.Setenv("HTTP_ADDR", "off")
	t.Setenv("ALLOW_INVALID_QUANTITY", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prompt.Interval.Duration != 90*time.Second {
		t.Fatalf("interval: want=90s got=%v", cfg.Prompt.Interval.Duration)
	}
	if cfg.Pending.TTL.Duration != 10*time.Minute {
		t.Fatalf("ttl: want=10m got=%v", cfg.Pending.TTL.Duration)
	}
	if cfg.HTTP.Addr != "" {
		t.Fatalf("http addr: want disabled got=%q", cfg.HTTP.Addr)
	}
	if !cfg.Ledger.AllowInvalidQuantity {
		t.Fatalf("AllowInvalidQuantity: want=true")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	cases := []struct {
		unset string
		code  ConfigErrorCode
	}{
		{"DISCORD_TOKEN", ConfigErrorMissingToken},
		{"TARGET_CHANNEL_ID", ConfigErrorMissingChannel},
		{"SPREADSHEET_ID", ConfigErrorMissingSpreadsheet},
	}
	for _, tc := range cases {
		t.Run(tc.unset, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.unset, "")
			_, err := Load()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got=%T (%v)", err, err)
			}
			if cfgErr.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, cfgErr.Code)
			}
		})
	}
}

func TestLoadRedisBackendNeedsAddr(t *testing.T) {
	setRequired(t)
	t.Setenv("PENDING_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "")

	_, err := Load()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != ConfigErrorMissingRedisAddr {
		t.Fatalf("want missing redis addr, got=%v", err)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	cases := []struct {
		key, val string
		code     ConfigErrorCode
	}{
		{"PENDING_BACKEND", "etcd", ConfigErrorInvalidBackend},
		{"LEDGER_TIMEZONE", "Mars/Olympus", ConfigErrorInvalidTimezone},
		{"PROMPT_INTERVAL", "soon", ConfigErrorInvalidDuration},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Code != tc.code {
				t.Fatalf("want code %q, got=%v", tc.code, err)
			}
		})
	}
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
env: production
discord:
  token: file-token
  channel_id: from-file
sheets:
  spreadsheet_id: file-sheet
  catalog_sheet: recipes
prompt:
  interval: 2m
pending:
  backend: memory
  ttl: 30m
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CRAFTLEDGER_CONFIG_PATH", path)
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("TARGET_CHANNEL_ID", "from-env")
	t.Setenv("SPREADSHEET_ID", "")
	t.Setenv("LOG_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "production" {
		t.Fatalf("env: want=production got=%q", cfg.Env)
	}
	if cfg.Discord.Token != "file-token" || cfg.Discord.ChannelID != "from-env" {
		t.Fatalf("discord: got=%+v", cfg.Discord)
	}
	if cfg.Sheets.CatalogSheet != "recipes" || cfg.Sheets.LogSheet != "ログ" {
		t.Fatalf("sheets: got=%+v", cfg.Sheets)
	}
	if cfg.Prompt.Interval.Duration != 2*time.Minute || cfg.Pending.TTL.Duration != 30*time.Minute {
		t.Fatalf("durations: interval=%v ttl=%v", cfg.Prompt.Interval.Duration, cfg.Pending.TTL.Duration)
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	setRequired(t)
	t.Setenv("CRAFTLEDGER_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != ConfigErrorUnreadableConfigFile {
		t.Fatalf("want unreadable file error, got=%v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want wrapped ErrNotExist, got=%v", err)
	}
}
