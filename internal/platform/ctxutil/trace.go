package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type eventDataKey struct{}

// EventData correlates every log line and span produced while handling one gateway event.
type EventData struct {
	EventID string
	Kind    string
}

func WithEventData(ctx context.Context, ed *EventData) context.Context {
	return context.WithValue(ctx, eventDataKey{}, ed)
}

func GetEventData(ctx context.Context) *EventData {
	if ed, ok := ctx.Value(eventDataKey{}).(*EventData); ok {
		return ed
	}
	return nil
}

// NewEvent attaches a fresh EventData of the given kind.
func NewEvent(ctx context.Context, kind string) (context.Context, *EventData) {
	ed := &EventData{EventID: uuid.New().String(), Kind: kind}
	return WithEventData(ctx, ed), ed
}
