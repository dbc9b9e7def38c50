package streak

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bryan-cox/streakledger/internal/model"
)

// ErrUnknownSortKey is returned by ParseSortKey for unsupported keys.
var ErrUnknownSortKey = errors.New("unknown sort key")

// ParseSortKey accepts "current"/"longest" and the camelCase field names
// "currentStreak"/"longestStreak", case-insensitively.
func ParseSortKey(s string) (model.SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current", "currentstreak", "current_streak":
		return model.SortCurrentStreak, nil
	case "longest", "longeststreak", "longest_streak":
		return model.SortLongestStreak, nil
	}
	return "", fmt.Errorf("%w %q (want current or longest)", ErrUnknownSortKey, s)
}

// Sort returns a copy of stats ordered by key, highest first. Ties keep
// their original relative order.
func Sort(stats []model.EntityStats, key model.SortKey) []model.EntityStats {
	out := make([]model.EntityStats, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool {
		return key.Value(out[i]) > key.Value(out[j])
	})
	return out
}
