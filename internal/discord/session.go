package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/yungbote/craftledger/internal/bridge"
	"github.com/yungbote/craftledger/internal/platform/logger"
)

const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildMembers

type Handler interface {
	OnSelect(ctx context.Context, ev bridge.SelectEvent)
	OnMessage(ctx context.Context, ev bridge.MessageEvent)
}

// Session owns the gateway connection and feeds its events to a Handler.
type Session struct {
	log *logger.Logger
	dg  *discordgo.Session

	readyOnce sync.Once
	ready     chan struct{}
	connected atomic.Bool
}

func New(log *logger.Logger, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("discord token required")
	}
	token = strings.TrimPrefix(token, "Bot ")
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("init discord session: %w", err)
	}
	dg.Identify.Intents = Intents
	return &Session{
		log:   log.With("service", "DiscordSession"),
		dg:    dg,
		ready: make(chan struct{}),
	}, nil
}

// Ready is closed after the first READY event. Reconnects do not reopen it.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Connected reports the live gateway state, for readiness probes.
func (s *Session) Connected() bool { return s.connected.Load() }

// Channel exposes the REST side of the session for prompt publishing.
func (s *Session) Channel() *Channel { return &Channel{dg: s.dg} }

// Run connects, dispatches events to h, and disconnects when ctx is done.
func (s *Session) Run(ctx context.Context, h Handler) error {
	removers := []func(){
		s.dg.AddHandler(s.onReady),
		s.dg.AddHandler(s.onDisconnect),
		s.dg.AddHandler(s.onResumed),
		s.dg.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
			defer s.recoverPanic("interaction")
			ev, ok := selectEvent(s.dg, i)
			if !ok {
				return
			}
			h.OnSelect(ctx, ev)
		}),
		s.dg.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
			defer s.recoverPanic("message")
			ev, ok := messageEvent(s.dg, m)
			if !ok {
				return
			}
			h.OnMessage(ctx, ev)
		}),
	}
	defer func() {
		for _, rm := range removers {
			rm()
		}
	}()

	if err := s.dg.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	<-ctx.Done()
	s.connected.Store(false)
	if err := s.dg.Close(); err != nil {
		s.log.Warn("discord close failed", "error", err)
	}
	s.log.Info("discord session closed")
	return nil
}

func (s *Session) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	s.connected.Store(true)
	s.log.Info("discord session ready", "bot_user", r.User.Username, "guilds", len(r.Guilds))
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *Session) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	s.connected.Store(false)
	s.log.Warn("discord gateway disconnected")
}

func (s *Session) onResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	s.connected.Store(true)
	s.log.Info("discord gateway resumed")
}

func (s *Session) recoverPanic(kind string) {
	if r := recover(); r != nil {
		s.log.Error("discord handler panic", "kind", kind, "panic", r)
	}
}
