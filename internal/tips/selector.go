// Package tips holds the view-side logic for cooking tips: picking the
// most-rated tip, filtering lists, and reconciling the viewer's ratings
// against service responses.
package tips

import (
	"math"
	"strings"

	"github.com/ladleapp/ladle/internal/api"
)

// MostRated returns the tip with the highest rating count, or nil for an
// empty list. Among tips sharing the highest count, the most recently
// created one wins; a tie on both fields keeps the earlier element, so the
// result is deterministic for a given input order.
func MostRated(tips []*api.Tip) *api.Tip {
	if len(tips) == 0 {
		return nil
	}

	best := tips[0]
	for _, candidate := range tips[1:] {
		switch {
		case candidate.RatingCount > best.RatingCount:
			best = candidate
		case candidate.RatingCount == best.RatingCount && candidate.CreatedAt.After(best.CreatedAt):
			best = candidate
		}
	}

	return best
}

// Filter narrows a tip list by title substring and category, both optional.
// The title match is case-insensitive. Used for the "my tips" view, which
// filters the already loaded list instead of asking the service.
func Filter(tips []*api.Tip, query string, category api.Category) []*api.Tip {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]*api.Tip, 0, len(tips))
	for _, tip := range tips {
		if category != "" && tip.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(tip.Title), query) {
			continue
		}

		filtered = append(filtered, tip)
	}

	return filtered
}

// DisplayRating resolves the star value to show for a tip. A hovered star
// always wins so the control gives feedback before any commit, then the
// viewer's own committed rating, then the rounded service average.
func DisplayRating(hover, committed int, averageRating float64) int {
	switch {
	case hover > 0:
		return hover
	case committed > 0:
		return committed
	default:
		return int(math.Round(averageRating))
	}
}
