package config

import "time"

type Duration struct {
	Duration time.Duration
}

type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	CatalogSheet  string `yaml:"catalog_sheet"`
	LogSheet      string `yaml:"log_sheet"`

	// Credential sources, first non-empty wins: base64 bundle, raw JSON, file path. All empty means
	// application default credentials.
	CredentialsB64  string `yaml:"credentials_b64"`
	CredentialsJSON string `yaml:"credentials_json"`
	CredentialsFile string `yaml:"credentials_file"`
	// RestoreCredentialsFile receives the decoded base64 bundle on disk when set.
	RestoreCredentialsFile string `yaml:"restore_credentials_file"`
}

type PromptConfig struct {
	Interval Duration `yaml:"interval"`
}

const (
	PendingBackendMemory = "memory"
	PendingBackendRedis  = "redis"
)

type PendingConfig struct {
	Backend string `yaml:"backend"`
	// TTL of zero keeps a selection until it is consumed.
	TTL            Duration `yaml:"ttl"`
	RedisAddr      string   `yaml:"redis_addr"`
	RedisKeyPrefix string   `yaml:"redis_key_prefix"`
}

type LedgerConfig struct {
	Timezone             string `yaml:"timezone"`
	AllowInvalidQuantity bool   `yaml:"allow_invalid_quantity"`
}

type HTTPConfig struct {
	// Addr of the ops server. Empty disables it.
	Addr            string   `yaml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

type Config struct {
	Env     string        `yaml:"env"`
	Discord DiscordConfig `yaml:"discord"`
	Sheets  SheetsConfig  `yaml:"sheets"`
	Prompt  PromptConfig  `yaml:"prompt"`
	Pending PendingConfig `yaml:"pending"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	HTTP    HTTPConfig    `yaml:"http"`

	location *time.Location
}

// Location is the timezone ledger timestamps are rendered in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
