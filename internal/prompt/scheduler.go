package prompt

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/craftledger/internal/observability"
	"github.com/yungbote/craftledger/internal/platform/logger"
)

const DefaultInterval = 5 * time.Minute

type publisher interface {
	Publish(ctx context.Context, channelID string) error
}

// Scheduler publishes once immediately and then on every tick. Runs are fire-and-forget and may overlap;
// nothing serializes them.
type Scheduler struct {
	log       *logger.Logger
	pub       publisher
	channelID string
	interval  time.Duration

	wg sync.WaitGroup
}

func NewScheduler(log *logger.Logger, pub publisher, channelID string, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		log:       log.With("component", "PromptScheduler", "channel_id", channelID),
		pub:       pub,
		channelID: channelID,
		interval:  interval,
	}
}

// Run blocks until ctx is done, then waits for in-flight publishes to return.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("prompt scheduler started", "interval", s.interval.String())
	s.fire(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.log.Info("prompt scheduler stopped")
			return
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("prompt publish panic", "panic", r)
			}
		}()
		if err := s.pub.Publish(ctx, s.channelID); err != nil {
			observability.Current().IncPromptPublish("error")
			s.log.Error("prompt publish failed", "error", err)
			return
		}
		observability.Current().IncPromptPublish("ok")
	}()
}
