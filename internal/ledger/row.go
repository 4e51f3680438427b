package ledger

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/yungbote/craftledger/internal/catalog"
)

// TimestampLayout renders event times the way the ja-JP locale does ("2025/4/27 13:05:09").
const TimestampLayout = "2006/1/2 15:04:05"

// Row is one line of the log tab, columns A-F.
type Row struct {
	Timestamp string
	Actor     string
	Item      string
	Quantity  int
	Memo      string
	AutoMemo  string
}

func (r Row) Values() []interface{} {
	return []interface{}{r.Timestamp, r.Actor, r.Item, r.Quantity, r.Memo, r.AutoMemo}
}

func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(TimestampLayout)
}

// AutoMemo tags every row of one production event with the item it was made for.
func AutoMemo(item string) string {
	return "[" + item + "作成用]"
}

// ErrQuantityOverflow means a row quantity would not fit in an int.
var ErrQuantityOverflow = errors.New("quantity out of range")

// BuildProduction emits the produced item row followed by one consumption row per material.
// The item row scales by the recipe multiplier; material rows scale by the raw quantity only.
// No rows are returned when any product overflows.
func BuildProduction(rec catalog.Recipe, quantity int, memo, actor, ts string) ([]Row, error) {
	mult := rec.Multiplier
	if mult == 0 {
		mult = 1
	}
	produced, ok := mulInt(quantity, mult)
	if !ok {
		return nil, fmt.Errorf("%s: %d x %d: %w", rec.Name, quantity, mult, ErrQuantityOverflow)
	}
	tag := AutoMemo(rec.Name)
	rows := make([]Row, 0, 1+len(rec.Materials))
	rows = append(rows, Row{
		Timestamp: ts,
		Actor:     actor,
		Item:      rec.Name,
		Quantity:  produced,
		Memo:      memo,
		AutoMemo:  tag,
	})
	for i, m := range rec.Materials {
		if i == catalog.MaxMaterials {
			break
		}
		if m.Name == "" || m.PerUnit == 0 {
			continue
		}
		used, ok := mulInt(m.PerUnit, quantity)
		if !ok || used == math.MinInt {
			return nil, fmt.Errorf("%s: %d x %d: %w", m.Name, m.PerUnit, quantity, ErrQuantityOverflow)
		}
		rows = append(rows, Row{
			Timestamp: ts,
			Actor:     actor,
			Item:      m.Name,
			Quantity:  -used,
			AutoMemo:  tag,
		})
	}
	return rows, nil
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

func BuildFreeform(item string, quantity int, memo, actor, ts string) []Row {
	return []Row{{
		Timestamp: ts,
		Actor:     actor,
		Item:      item,
		Quantity:  quantity,
		Memo:      memo,
	}}
}
