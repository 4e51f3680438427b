package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/craftledger/internal/bridge"
	"github.com/yungbote/craftledger/internal/catalog"
	"github.com/yungbote/craftledger/internal/config"
	"github.com/yungbote/craftledger/internal/discord"
	opshttp "github.com/yungbote/craftledger/internal/http"
	httpH "github.com/yungbote/craftledger/internal/http/handlers"
	"github.com/yungbote/craftledger/internal/ledger"
	"github.com/yungbote/craftledger/internal/observability"
	"github.com/yungbote/craftledger/internal/platform/logger"
	"github.com/yungbote/craftledger/internal/prompt"
)

const serviceName = "craftledger"

// Version is stamped at build time with -ldflags.
var Version = "dev"

var initOTel = observability.InitOTel

type App struct {
	Log    *logger.Logger
	Config *config.Config

	clients      Clients
	session      *discord.Session
	bridge       *bridge.Bridge
	scheduler    *prompt.Scheduler
	server       *opshttp.Server
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("config loaded", "config", cfg.String())

	ctx := context.Background()
	otelShutdown := initOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Env,
		Version:     Version,
	})
	metrics := observability.Init()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		stopOTel(log, otelShutdown)
		log.Sync()
		return nil, err
	}

	reader := catalog.NewReader(clients.Sheets, cfg.Sheets.CatalogSheet)
	writer := ledger.NewWriter(clients.Sheets, cfg.Sheets.LogSheet)
	b := bridge.New(log, bridge.Config{
		ChannelID:            cfg.Discord.ChannelID,
		Location:             cfg.Location(),
		AllowInvalidQuantity: cfg.Ledger.AllowInvalidQuantity,
	}, clients.Pending, reader, writer)

	session, err := discord.New(log, cfg.Discord.Token)
	if err != nil {
		clients.Close(log)
		stopOTel(log, otelShutdown)
		log.Sync()
		return nil, err
	}
	pub := prompt.NewPublisher(log, reader, session.Channel())
	sched := prompt.NewScheduler(log, pub, cfg.Discord.ChannelID, cfg.Prompt.Interval.Duration)

	a := &App{
		Log:          log,
		Config:       cfg,
		clients:      clients,
		session:      session,
		bridge:       b,
		scheduler:    sched,
		otelShutdown: otelShutdown,
	}
	if cfg.HTTP.Addr != "" {
		switch strings.ToLower(cfg.Env) {
		case "prod", "production":
			gin.SetMode(gin.ReleaseMode)
		}
		a.server = opshttp.NewServer(log, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout.Duration, opshttp.RouterConfig{
			Log:           log,
			ServiceName:   serviceName,
			HealthHandler: httpH.NewHealthHandler(session.Connected),
			Metrics:       metrics,
		})
	}
	return a, nil
}

// Run blocks until ctx is cancelled or a component fails. The prompt scheduler starts on the first gateway READY.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.session.Run(gctx, a.bridge)
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case <-a.session.Ready():
		}
		a.Log.Info("starting prompt scheduler", "channel_id", a.Config.Discord.ChannelID, "interval", a.Config.Prompt.Interval.Duration.String())
		a.scheduler.Run(gctx)
		return nil
	})
	if a.server != nil {
		g.Go(func() error {
			return a.server.Run(gctx)
		})
	}
	return g.Wait()
}

func (a *App) close() {
	stopOTel(a.Log, a.otelShutdown)
	a.clients.Close(a.Log)
	a.Log.Info("craftledger stopped")
	a.Log.Sync()
}

// stopOTel flushes and stops the tracer provider.
func stopOTel(log *logger.Logger, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn("otel shutdown failed", "error", err)
	}
}
