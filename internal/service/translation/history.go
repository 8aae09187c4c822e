package translation

import (
	"context"
	"fmt"

	"github.com/heartmarshall/quicktranslate/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// History returns the most recent lookups, newest first.
// Limit is clamped to [1, 100], defaulting to 20.
func (s *Service) History(ctx context.Context, limit int) ([]domain.HistoryItem, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	items, err := s.history.ListRecent(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("translation: list history: %w", err)
	}
	return items, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
