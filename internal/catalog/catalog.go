package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/craftledger/internal/platform/intparse"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// MaxMaterials is the number of (material, quantity) column pairs a catalog row carries.
const MaxMaterials = 4

type Material struct {
	Name    string
	PerUnit int
}

type Recipe struct {
	Name       string
	Multiplier int
	Materials  []Material
}

type Source interface {
	Get(ctx context.Context, rng string) ([][]string, error)
}

// Reader reads the catalog tab fresh on every call. Nothing is cached.
type Reader struct {
	src   Source
	sheet string
}

func NewReader(src Source, sheet string) *Reader {
	return &Reader{src: src, sheet: sheet}
}

// ListItemNames returns column A from row 2 down, in sheet order, with blank cells dropped.
func (r *Reader) ListItemNames(ctx context.Context) ([]string, error) {
	rows, err := r.src.Get(ctx, r.sheet+"!A2:A")
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				names = append(names, cell)
			}
		}
	}
	return names, nil
}

// GetRecipe returns the first catalog row whose name cell equals name exactly.
func (r *Reader) GetRecipe(ctx context.Context, name string) (Recipe, error) {
	rows, err := r.src.Get(ctx, r.sheet+"!A2:J")
	if err != nil {
		return Recipe{}, fmt.Errorf("read catalog: %w", err)
	}
	for _, row := range rows {
		if len(row) > 0 && row[0] == name {
			return ParseRow(row), nil
		}
	}
	return Recipe{}, fmt.Errorf("%q: %w", name, ErrRecipeNotFound)
}

// ParseRow decodes one A:J row. A missing, unparsable or zero multiplier becomes 1. Material pairs with a
// blank name or a missing/zero quantity are skipped.
func ParseRow(row []string) Recipe {
	rec := Recipe{Name: cell(row, 0), Multiplier: 1}
	if m, ok := intparse.Leading(cell(row, 1)); ok && m != 0 {
		rec.Multiplier = m
	}
	for i := 0; i < MaxMaterials; i++ {
		name := cell(row, 2+i*2)
		qty, ok := intparse.Leading(cell(row, 3+i*2))
		if strings.TrimSpace(name) == "" || !ok || qty == 0 {
			continue
		}
		rec.Materials = append(rec.Materials, Material{Name: name, PerUnit: qty})
	}
	return rec
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
