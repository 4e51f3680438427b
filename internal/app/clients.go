package app

import (
	"context"
	"fmt"

	"github.com/yungbote/craftledger/internal/config"
	"github.com/yungbote/craftledger/internal/pending"
	"github.com/yungbote/craftledger/internal/platform/gcp"
	"github.com/yungbote/craftledger/internal/platform/logger"
	"github.com/yungbote/craftledger/internal/platform/sheets"
)

type Clients struct {
	Sheets  *sheets.Client
	Pending pending.Store

	redis *pending.RedisStore
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config) (Clients, error) {
	opts, err := gcp.ClientOptions(gcp.Credentials{
		Base64:      cfg.Sheets.CredentialsB64,
		JSON:        cfg.Sheets.CredentialsJSON,
		File:        cfg.Sheets.CredentialsFile,
		RestorePath: cfg.Sheets.RestoreCredentialsFile,
	}, sheets.Scope)
	if err != nil {
		return Clients{}, fmt.Errorf("google credentials: %w", err)
	}
	sc, err := sheets.New(ctx, log, cfg.Sheets.SpreadsheetID, opts...)
	if err != nil {
		return Clients{}, err
	}

	c := Clients{Sheets: sc}
	switch cfg.Pending.Backend {
	case config.PendingBackendRedis:
		rs, err := pending.NewRedisStore(log, cfg.Pending.RedisAddr, cfg.Pending.RedisKeyPrefix, cfg.Pending.TTL.Duration)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis pending store: %w", err)
		}
		c.Pending = rs
		c.redis = rs
	default:
		c.Pending = pending.NewMemoryStore(cfg.Pending.TTL.Duration)
	}
	log.Info("pending store ready", "backend", cfg.Pending.Backend, "ttl", cfg.Pending.TTL.Duration.String())
	return c, nil
}

func (c *Clients) Close(log *logger.Logger) {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
}
