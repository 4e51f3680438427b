package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/yungbote/craftledger/internal/observability"
	"github.com/yungbote/craftledger/internal/platform/logger"
)

const Scope = gsheets.SpreadsheetsScope

// Table is the slice of the Sheets values API the bridge needs.
type Table interface {
	Get(ctx context.Context, rng string) ([][]string, error)
	Append(ctx context.Context, rng string, rows [][]interface{}) error
}

type Client struct {
	log           *logger.Logger
	svc           *gsheets.Service
	spreadsheetID string
	tracer        trace.Tracer
}

func New(ctx context.Context, log *logger.Logger, spreadsheetID string, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("spreadsheet id required")
	}
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	return &Client{
		log:           log.With("service", "SheetsClient"),
		svc:           svc,
		spreadsheetID: spreadsheetID,
		tracer:        otel.Tracer("craftledger/sheets"),
	}, nil
}

func (c *Client) Get(ctx context.Context, rng string) ([][]string, error) {
	ctx, span := c.tracer.Start(ctx, "sheets.values.get", trace.WithAttributes(attribute.String("sheets.range", rng)))
	defer span.End()

	start := time.Now()
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	observability.Current().ObserveSheets("get", err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("sheets get %s: %w", rng, err)
	}
	out := toStrings(resp.Values)
	span.SetAttributes(attribute.Int("sheets.rows", len(out)))
	c.log.Debug("sheets values fetched", "range", rng, "rows", len(out))
	return out, nil
}

func (c *Client) Append(ctx context.Context, rng string, rows [][]interface{}) error {
	ctx, span := c.tracer.Start(ctx, "sheets.values.append", trace.WithAttributes(
		attribute.String("sheets.range", rng),
		attribute.Int("sheets.rows", len(rows)),
	))
	defer span.End()

	start := time.Now()
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rng, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	observability.Current().ObserveSheets("append", err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("sheets append %s: %w", rng, err)
	}
	c.log.Debug("sheets rows appended", "range", rng, "rows", len(rows))
	return nil
}

// toStrings flattens the API's loosely typed cells. Formatted values come back as strings already; anything
// else is printed.
func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, v := range row {
			switch t := v.(type) {
			case nil:
			case string:
				cells[i] = t
			default:
				cells[i] = fmt.Sprint(t)
			}
		}
		out = append(out, cells)
	}
	return out
}
