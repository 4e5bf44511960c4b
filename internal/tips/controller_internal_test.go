package tips

import (
	"testing"

	"github.com/ladleapp/ladle/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDiscardsStaleGenerations(t *testing.T) {
	t.Parallel()

	c := &Controller{ratings: NewRatingReconciler(nil)}

	older := c.nextGeneration()
	newer := c.nextGeneration()

	// A response from the older load must not replace newer state.
	applied := c.apply(older, []*api.Tip{{ID: "stale"}})
	assert.False(t, applied)
	assert.Empty(t, c.Tips())

	applied = c.apply(newer, []*api.Tip{{ID: "fresh"}})
	assert.True(t, applied)

	tips := c.Tips()
	require.Len(t, tips, 1)
	assert.Equal(t, "fresh", tips[0].ID)

	// Once applied, the same generation cannot be replayed after a new
	// load starts.
	c.nextGeneration()
	assert.False(t, c.apply(newer, []*api.Tip{{ID: "late"}}))
}
