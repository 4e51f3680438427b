// Package bridge routes gateway events through the selection, interpretation and ledger steps.
//
// Every failure stops at this boundary: it is logged and swallowed. A written entry is acknowledged only by
// the success reaction on the user's message.
package bridge

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/craftledger/internal/catalog"
	"github.com/yungbote/craftledger/internal/ledger"
	"github.com/yungbote/craftledger/internal/observability"
	"github.com/yungbote/craftledger/internal/pending"
	"github.com/yungbote/craftledger/internal/platform/ctxutil"
	"github.com/yungbote/craftledger/internal/platform/logger"
	"github.com/yungbote/craftledger/internal/prompt"
	"github.com/yungbote/craftledger/internal/reply"
)

const (
	SuccessReaction    = "🏯"
	MsgRecipeNotFound  = "❌ 該当アイテムが見つかりません"
	MsgInvalidQuantity = "❌ 数量は数字で入力するのじゃ"
)

func SelectedMessage(item string) string {
	return "**" + item + "** を選んだのじゃ。\n次に「数量 メモ（任意）」を入力するのじゃ。\n例：`3 重要アイテム`"
}

type Interaction interface {
	ReplyEphemeral(ctx context.Context, content string) error
}

type MessageResponder interface {
	Reply(ctx context.Context, content string) error
	React(ctx context.Context, emoji string) error
}

type SelectEvent struct {
	ChannelID   string
	UserID      string
	DisplayName string
	CustomID    string
	Respond     Interaction
}

type MessageEvent struct {
	ChannelID   string
	MessageID   string
	AuthorID    string
	AuthorIsBot bool
	DisplayName string
	Content     string
	At          time.Time
	Respond     MessageResponder
}

type Recipes interface {
	GetRecipe(ctx context.Context, name string) (catalog.Recipe, error)
}

type Ledger interface {
	Append(ctx context.Context, rows []ledger.Row) error
}

type Config struct {
	ChannelID string
	Location  *time.Location
	// AllowInvalidQuantity writes rows with quantity 0 when the reply's quantity does not parse, instead of
	// asking the user again.
	AllowInvalidQuantity bool
}

type Bridge struct {
	log     *logger.Logger
	cfg     Config
	store   pending.Store
	recipes Recipes
	ledger  Ledger
	now     func() time.Time
	tracer  trace.Tracer
}

func New(log *logger.Logger, cfg Config, store pending.Store, recipes Recipes, l Ledger) *Bridge {
	return &Bridge{
		log:     log.With("component", "Bridge"),
		cfg:     cfg,
		store:   store,
		recipes: recipes,
		ledger:  l,
		now:     time.Now,
		tracer:  otel.Tracer("craftledger/bridge"),
	}
}

// OnSelect records which item a user clicked and tells them what to type next.
func (b *Bridge) OnSelect(ctx context.Context, ev SelectEvent) {
	if ev.ChannelID != b.cfg.ChannelID {
		return
	}
	item, ok := prompt.ItemFromCustomID(ev.CustomID)
	if !ok {
		return
	}
	ctx, ed := ctxutil.NewEvent(ctx, "select")
	ctx, span := b.tracer.Start(ctx, "bridge.on_select", trace.WithAttributes(attribute.String("craftledger.item", item)))
	defer span.End()
	log := b.log.With("event_id", ed.EventID, "user_id", ev.UserID)

	if err := b.store.Put(ctx, pending.Selection{UserID: ev.UserID, Item: item, DisplayName: ev.DisplayName}); err != nil {
		fail(span, err)
		observability.Current().IncEvent("select", "store_error")
		log.Error("store pending selection failed", "item", item, "error", err)
		return
	}
	observability.Current().IncEvent("select", "stored")
	log.Info("item selected", "item", item)

	if ev.Respond == nil {
		return
	}
	if err := ev.Respond.ReplyEphemeral(ctx, SelectedMessage(item)); err != nil {
		log.Warn("selection ack failed", "error", err)
	}
}

// OnMessage turns a chat message into ledger rows. With a pending selection it is the quantity reply;
// without one it is a freeform "item quantity memo" entry.
func (b *Bridge) OnMessage(ctx context.Context, ev MessageEvent) {
	if ev.AuthorIsBot || ev.ChannelID != b.cfg.ChannelID {
		return
	}
	// Attachment- or sticker-only messages carry no text to log.
	if strings.TrimSpace(ev.Content) == "" {
		return
	}
	ctx, ed := ctxutil.NewEvent(ctx, "message")
	ctx, span := b.tracer.Start(ctx, "bridge.on_message")
	defer span.End()
	log := b.log.With("event_id", ed.EventID, "user_id", ev.AuthorID, "message_id", ev.MessageID)

	sel, has, err := b.store.Take(ctx, ev.AuthorID)
	if err != nil {
		fail(span, err)
		observability.Current().IncEvent("message", "store_error")
		log.Error("take pending selection failed", "error", err)
		return
	}
	span.SetAttributes(attribute.Bool("craftledger.pending", has))

	at := ev.At
	if at.IsZero() {
		at = b.now()
	}
	ts := ledger.FormatTimestamp(at, b.cfg.Location)

	var rows []ledger.Row
	path := "freeform"
	if has {
		path = "production"
		var outcome string
		rows, outcome = b.productionRows(ctx, log, span, ev, sel, ts)
		if rows == nil {
			observability.Current().IncEvent("message", outcome)
			return
		}
	} else {
		r := reply.Interpret(ev.Content, false)
		rows = ledger.BuildFreeform(r.RawItem, r.Quantity, r.Memo, ev.DisplayName, ts)
	}

	if err := b.ledger.Append(ctx, rows); err != nil {
		fail(span, err)
		observability.Current().IncEvent("message", "append_error")
		log.Error("ledger append failed", "rows", len(rows), "error", err)
		return
	}
	observability.Current().IncEvent("message", "written")
	observability.Current().AddLedgerRows(path, len(rows))
	log.Info("ledger rows appended", "path", path, "rows", len(rows), "item", rows[0].Item)

	if ev.Respond == nil {
		return
	}
	if err := ev.Respond.React(ctx, SuccessReaction); err != nil {
		log.Warn("success reaction failed", "error", err)
	}
}

// productionRows returns nil rows and the reason when nothing should be written. The user has been told why
// where that applies.
func (b *Bridge) productionRows(ctx context.Context, log *logger.Logger, span trace.Span, ev MessageEvent, sel pending.Selection, ts string) ([]ledger.Row, string) {
	r := reply.Interpret(ev.Content, true)
	if !r.QuantityValid && !b.cfg.AllowInvalidQuantity {
		b.rejectQuantity(ctx, log, ev, sel)
		return nil, "invalid_quantity"
	}

	rec, err := b.recipes.GetRecipe(ctx, sel.Item)
	if errors.Is(err, catalog.ErrRecipeNotFound) {
		log.Info("recipe not found", "item", sel.Item)
		b.replyTo(ctx, log, ev, MsgRecipeNotFound)
		return nil, "recipe_not_found"
	}
	if err != nil {
		fail(span, err)
		log.Error("recipe lookup failed", "item", sel.Item, "error", err)
		return nil, "catalog_error"
	}
	rows, err := ledger.BuildProduction(rec, r.Quantity, r.Memo, ev.DisplayName, ts)
	if err != nil {
		log.Warn("production quantity out of range", "item", sel.Item, "quantity", r.Quantity, "error", err)
		b.rejectQuantity(ctx, log, ev, sel)
		return nil, "invalid_quantity"
	}
	return rows, ""
}

// rejectQuantity asks for a number again. The selection goes back only if the user has not picked another
// item in the meantime.
func (b *Bridge) rejectQuantity(ctx context.Context, log *logger.Logger, ev MessageEvent, sel pending.Selection) {
	held, err := b.store.Restore(ctx, sel)
	if err != nil {
		log.Warn("restore pending selection failed", "error", err)
	}
	log.Info("quantity rejected", "item", sel.Item, "restored", held)
	b.replyTo(ctx, log, ev, MsgInvalidQuantity)
}

func (b *Bridge) replyTo(ctx context.Context, log *logger.Logger, ev MessageEvent, content string) {
	if ev.Respond == nil {
		return
	}
	if err := ev.Respond.Reply(ctx, content); err != nil {
		log.Warn("reply failed", "error", err)
	}
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
