package tips_test

import (
	"testing"
	"time"

	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/internal/tips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMostRated(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tips     []*api.Tip
		expected string // expected tip id, empty for nil result
	}{
		{
			name:     "empty list",
			tips:     nil,
			expected: "",
		},
		{
			name:     "single element",
			tips:     []*api.Tip{{ID: "only", RatingCount: 0}},
			expected: "only",
		},
		{
			name: "highest count wins",
			tips: []*api.Tip{
				{ID: "a", RatingCount: 3, CreatedAt: t0},
				{ID: "b", RatingCount: 9, CreatedAt: t0},
				{ID: "c", RatingCount: 5, CreatedAt: t0},
			},
			expected: "b",
		},
		{
			name: "equal counts, later creation wins",
			tips: []*api.Tip{
				{ID: "1", RatingCount: 5, CreatedAt: t0},
				{ID: "2", RatingCount: 5, CreatedAt: t0.Add(time.Hour)},
			},
			expected: "2",
		},
		{
			name: "equal counts and timestamps keep input order",
			tips: []*api.Tip{
				{ID: "first", RatingCount: 5, CreatedAt: t0},
				{ID: "second", RatingCount: 5, CreatedAt: t0},
				{ID: "third", RatingCount: 5, CreatedAt: t0},
			},
			expected: "first",
		},
		{
			name: "later tie-break never beats higher count",
			tips: []*api.Tip{
				{ID: "popular", RatingCount: 8, CreatedAt: t0},
				{ID: "newer", RatingCount: 2, CreatedAt: t0.Add(48 * time.Hour)},
			},
			expected: "popular",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := tips.MostRated(tt.tips)
			if tt.expected == "" {
				assert.Nil(t, result)
				return
			}

			require.NotNil(t, result)
			assert.Equal(t, tt.expected, result.ID)

			// The winner's count must dominate every other element.
			for _, tip := range tt.tips {
				assert.GreaterOrEqual(t, result.RatingCount, tip.RatingCount)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	list := []*api.Tip{
		{ID: "a", Title: "Storing fresh basil", Category: api.CategoryStorage},
		{ID: "b", Title: "Basil substitutes", Category: api.CategorySubstitutes},
		{ID: "c", Title: "Knife prep basics", Category: api.CategoryPrep},
	}

	t.Run("query only", func(t *testing.T) {
		t.Parallel()

		filtered := tips.Filter(list, "BASIL", "")
		require.Len(t, filtered, 2)
		assert.Equal(t, "a", filtered[0].ID)
		assert.Equal(t, "b", filtered[1].ID)
	})

	t.Run("category only", func(t *testing.T) {
		t.Parallel()

		filtered := tips.Filter(list, "", api.CategoryPrep)
		require.Len(t, filtered, 1)
		assert.Equal(t, "c", filtered[0].ID)
	})

	t.Run("query and category", func(t *testing.T) {
		t.Parallel()

		filtered := tips.Filter(list, "basil", api.CategoryStorage)
		require.Len(t, filtered, 1)
		assert.Equal(t, "a", filtered[0].ID)
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		t.Parallel()

		assert.Len(t, tips.Filter(list, "  ", ""), 3)
	})
}

func TestDisplayRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		hover     int
		committed int
		average   float64
		expected  int
	}{
		{name: "hover beats everything", hover: 2, committed: 5, average: 4.8, expected: 2},
		{name: "committed beats average", hover: 0, committed: 5, average: 1.2, expected: 5},
		{name: "average rounds up", hover: 0, committed: 0, average: 3.5, expected: 4},
		{name: "average rounds down", hover: 0, committed: 0, average: 3.4, expected: 3},
		{name: "nothing rated", hover: 0, committed: 0, average: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tips.DisplayRating(tt.hover, tt.committed, tt.average))
		})
	}
}
