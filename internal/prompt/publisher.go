package prompt

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/craftledger/internal/platform/logger"
)

const (
	Content        = "記録する項目を選ぶのじゃ"
	CustomIDPrefix = "item_"

	// Discord component limits.
	ButtonsPerRow  = 5
	MaxRows        = 5
	MaxButtons     = ButtonsPerRow * MaxRows
	MaxCustomIDLen = 100
	MaxLabelLen    = 80
	HistoryLimit   = 10
)

type Button struct {
	Label    string
	CustomID string
}

type Message struct {
	ID       string
	AuthorID string
}

// Channel is what the publisher needs from the chat platform.
type Channel interface {
	SelfID() string
	RecentMessages(ctx context.Context, channelID string, limit int) ([]Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendGrid(ctx context.Context, channelID, content string, rows [][]Button) error
}

type Catalog interface {
	ListItemNames(ctx context.Context) ([]string, error)
}

type Publisher struct {
	log     *logger.Logger
	catalog Catalog
	channel Channel
}

func NewPublisher(log *logger.Logger, catalog Catalog, channel Channel) *Publisher {
	return &Publisher{
		log:     log.With("component", "PromptPublisher"),
		catalog: catalog,
		channel: channel,
	}
}

func CustomID(item string) string { return CustomIDPrefix + item }

// ItemFromCustomID strips the button prefix. ok is false for ids this bridge did not mint.
func ItemFromCustomID(id string) (item string, ok bool) {
	return strings.CutPrefix(id, CustomIDPrefix)
}

// Grid lays items out in rows of ButtonsPerRow, keeping at most MaxButtons. Anything beyond is dropped.
func Grid(items []string) [][]Button {
	if len(items) > MaxButtons {
		items = items[:MaxButtons]
	}
	rows := make([][]Button, 0, (len(items)+ButtonsPerRow-1)/ButtonsPerRow)
	for i := 0; i < len(items); i += ButtonsPerRow {
		end := min(i+ButtonsPerRow, len(items))
		row := make([]Button, 0, end-i)
		for _, item := range items[i:end] {
			row = append(row, Button{Label: item, CustomID: CustomID(item)})
		}
		rows = append(rows, row)
	}
	return rows
}

// Publish replaces the bot's earlier prompts in channelID with a fresh button grid. An empty catalog is a no-op.
func (p *Publisher) Publish(ctx context.Context, channelID string) error {
	ctx, span := otel.Tracer("craftledger/prompt").Start(ctx, "prompt.publish")
	defer span.End()
	span.SetAttributes(attribute.String("discord.channel_id", channelID))

	items, err := p.catalog.ListItemNames(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("publish prompt: %w", err)
	}
	items = p.usable(items)
	if len(items) == 0 {
		p.log.Debug("catalog empty, skipping prompt", "channel_id", channelID)
		return nil
	}
	if len(items) > MaxButtons {
		p.log.Debug("catalog exceeds button limit, truncating", "items", len(items), "shown", MaxButtons)
	}

	p.cleanup(ctx, channelID)

	grid := Grid(items)
	if err := p.channel.SendGrid(ctx, channelID, Content, grid); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("send prompt: %w", err)
	}
	p.log.Info("prompt published", "channel_id", channelID, "rows", len(grid))
	return nil
}

// usable drops items whose label or custom id is over the platform limit. Both limits count characters.
func (p *Publisher) usable(items []string) []string {
	out := items[:0:0]
	for _, item := range items {
		if utf8.RuneCountInString(item) > MaxLabelLen || utf8.RuneCountInString(CustomID(item)) > MaxCustomIDLen {
			p.log.Warn("item name too long for a button, skipping", "item", item)
			continue
		}
		out = append(out, item)
	}
	return out
}

// cleanup is best-effort; failures are logged and the publish goes on.
func (p *Publisher) cleanup(ctx context.Context, channelID string) {
	msgs, err := p.channel.RecentMessages(ctx, channelID, HistoryLimit)
	if err != nil {
		p.log.Warn("fetch recent messages failed", "channel_id", channelID, "error", err)
		return
	}
	self := p.channel.SelfID()
	for _, m := range msgs {
		if m.AuthorID != self {
			continue
		}
		if err := p.channel.DeleteMessage(ctx, channelID, m.ID); err != nil {
			p.log.Warn("delete stale prompt failed", "channel_id", channelID, "message_id", m.ID, "error", err)
		}
	}
}
