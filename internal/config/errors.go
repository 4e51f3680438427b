package config

import "fmt"

type ConfigErrorCode string

const (
	ConfigErrorMissingToken         ConfigErrorCode = "missing_discord_token"
	ConfigErrorMissingChannel       ConfigErrorCode = "missing_channel_id"
	ConfigErrorMissingSpreadsheet   ConfigErrorCode = "missing_spreadsheet_id"
	ConfigErrorInvalidTimezone      ConfigErrorCode = "invalid_timezone"
	ConfigErrorInvalidBackend       ConfigErrorCode = "invalid_pending_backend"
	ConfigErrorMissingRedisAddr     ConfigErrorCode = "missing_redis_addr"
	ConfigErrorInvalidDuration      ConfigErrorCode = "invalid_duration"
	ConfigErrorUnreadableConfigFile ConfigErrorCode = "unreadable_config_file"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid craftledger config"
	}
	switch e.Code {
	case ConfigErrorMissingToken:
		return "DISCORD_TOKEN is required"
	case ConfigErrorMissingChannel:
		return "TARGET_CHANNEL_ID is required"
	case ConfigErrorMissingSpreadsheet:
		return "SPREADSHEET_ID is required"
	case ConfigErrorInvalidTimezone:
		return fmt.Sprintf("invalid ledger timezone %q", e.Value)
	case ConfigErrorInvalidBackend:
		return fmt.Sprintf("invalid pending backend %q; expected memory or redis", e.Value)
	case ConfigErrorMissingRedisAddr:
		return "REDIS_ADDR is required when the pending backend is redis"
	case ConfigErrorInvalidDuration:
		return fmt.Sprintf("invalid duration %q", e.Value)
	case ConfigErrorUnreadableConfigFile:
		if e.Cause != nil {
			return fmt.Sprintf("read config %s: %v", e.Value, e.Cause)
		}
		return fmt.Sprintf("read config %s", e.Value)
	default:
		return "invalid craftledger config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
