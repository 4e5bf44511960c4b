package challenges_test

import (
	"testing"
	"time"

	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/internal/challenges"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdersByVotesStable(t *testing.T) {
	t.Parallel()

	submissions := []*api.Submission{
		{RecipeID: "A", Votes: 3},
		{RecipeID: "B", Votes: 7},
		{RecipeID: "C", Votes: 7},
	}

	ranked := challenges.Rank(submissions)

	require.Len(t, ranked, 3)
	assert.Equal(t, "B", ranked[0].RecipeID)
	assert.Equal(t, "C", ranked[1].RecipeID, "equal tallies keep input order")
	assert.Equal(t, "A", ranked[2].RecipeID)

	// The input slice must keep its original order.
	assert.Equal(t, "A", submissions[0].RecipeID)
}

func TestRankEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, challenges.Rank(nil))
}

func TestCanVote(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endDate  time.Time
		voted    []string
		expected bool
	}{
		{name: "active and not voted", endDate: now.Add(time.Hour), expected: true},
		{name: "active but already voted", endDate: now.Add(time.Hour), voted: []string{"viewer-1"}, expected: false},
		{name: "ended challenge", endDate: now.Add(-24 * time.Hour), expected: false},
		{name: "ended and voted", endDate: now.Add(-24 * time.Hour), voted: []string{"viewer-1"}, expected: false},
		{name: "ends exactly now", endDate: now, expected: false},
		{name: "someone else voted", endDate: now.Add(time.Hour), voted: []string{"viewer-2"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			challenge := &api.Challenge{EndDate: tt.endDate}
			submission := &api.Submission{VotedUserIDs: tt.voted}

			assert.Equal(t, tt.expected, challenges.CanVote(challenge, submission, "viewer-1", now))
		})
	}
}

func TestResolveOmitsUnresolvableRecipes(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	challenge := &api.Challenge{ID: "ch1", EndDate: now.Add(time.Hour)}

	submissions := []*api.Submission{
		{RecipeID: "r1", Votes: 2},
		{RecipeID: "deleted", Votes: 9},
		{RecipeID: "r2", Votes: 5, VotedUserIDs: []string{"viewer-1"}},
	}
	recipes := []*api.Recipe{
		{ID: "r1", Title: "Mushroom risotto"},
		{ID: "r2", Title: "Shakshuka"},
	}

	entries := challenges.Resolve(challenge, submissions, recipes, "viewer-1", now)

	// The submission with the deleted recipe disappears even though it has
	// the most votes.
	require.Len(t, entries, 2)
	assert.Equal(t, "Shakshuka", entries[0].RecipeTitle)
	assert.False(t, entries[0].CanVote, "viewer already voted")
	assert.Equal(t, "Mushroom risotto", entries[1].RecipeTitle)
	assert.True(t, entries[1].CanVote)
}

func TestResolveEndedChallengeDisablesAllVotes(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	challenge := &api.Challenge{ID: "ch1", EndDate: now.Add(-24 * time.Hour)}

	submissions := []*api.Submission{
		{RecipeID: "r1", Votes: 1},
		{RecipeID: "r2", Votes: 2},
	}
	recipes := []*api.Recipe{{ID: "r1"}, {ID: "r2"}}

	for _, entry := range challenges.Resolve(challenge, submissions, recipes, "anyone", now) {
		assert.False(t, entry.CanVote)
	}
}
