package app

import (
	"context"
	"testing"

	"github.com/yungbote/craftledger/internal/observability"
	"github.com/yungbote/craftledger/internal/platform/logger"
)

func TestNewStopsTracingWhenWiringFails(t *testing.T) {
	t.Setenv("CRAFTLEDGER_CONFIG_PATH", "")
	t.Setenv("LOG_MODE", "")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("TARGET_CHANNEL_ID", "chan-1")
	t.Setenv("SPREADSHEET_ID", "sheet-1")
	t.Setenv("GOOGLE_CREDENTIALS_B64", "%%% not base64 %%%")
	t.Setenv("PENDING_BACKEND", "")

	stopped := 0
	prev := initOTel
	initOTel = func(context.Context, *logger.Logger, observability.OtelConfig) func(context.Context) error {
		return func(context.Context) error {
			stopped++
			return nil
		}
	}
	t.Cleanup(func() { initOTel = prev })

	a, err := New()
	if err == nil {
		t.Fatalf("New: want credentials error, got app=%v", a)
	}
	if stopped != 1 {
		t.Fatalf("otel shutdown calls: want=1 got=%d", stopped)
	}
}
