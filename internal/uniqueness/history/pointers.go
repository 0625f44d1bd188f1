package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dataproof/internal/proof/models"
)

// StaticPointers serves the same fixed pointer list to every submission. A
// production deployment resolves pointers per wallet address instead.
type StaticPointers struct {
	pointers []models.HistoricalPointer
}

// NewStaticPointers copies the given list.
func NewStaticPointers(pointers []models.HistoricalPointer) *StaticPointers {
	return &StaticPointers{pointers: append([]models.HistoricalPointer(nil), pointers...)}
}

// Pointers ignores the wallet address.
func (s *StaticPointers) Pointers(_ context.Context, _ string) ([]models.HistoricalPointer, error) {
	return append([]models.HistoricalPointer(nil), s.pointers...), nil
}

// ParsePointers decodes a JSON array of pointers. Entries with neither an id
// nor a url are dropped.
func ParsePointers(raw string) ([]models.HistoricalPointer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var decoded []models.HistoricalPointer
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("parse historical pointers: %w", err)
	}

	out := decoded[:0]
	for _, p := range decoded {
		if p.ID == "" && p.URL == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
