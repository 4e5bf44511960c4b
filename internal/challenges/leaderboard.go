// Package challenges holds the view-side logic for cooking challenges:
// leaderboard ranking, vote eligibility, and the create/edit/delete
// lifecycles.
package challenges

import (
	"sort"
	"time"

	"github.com/ladleapp/ladle/internal/api"
)

// Rank orders submissions by descending vote count. The sort is stable, so
// submissions with equal tallies keep their input order. The input slice is
// left untouched.
func Rank(submissions []*api.Submission) []*api.Submission {
	ranked := make([]*api.Submission, len(submissions))
	copy(ranked, submissions)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})

	return ranked
}

// CanVote reports whether the viewer may vote for a submission: the
// challenge must still be running and the viewer must not have voted for it
// already.
func CanVote(challenge *api.Challenge, submission *api.Submission, viewerID string, now time.Time) bool {
	return challenge.Active(now) && !submission.HasVoted(viewerID)
}

// Entry is a leaderboard row with the submission's recipe resolved to a
// title and the viewer's eligibility precomputed.
type Entry struct {
	Submission  *api.Submission
	RecipeTitle string
	CanVote     bool
}

// Resolve builds the displayable leaderboard for a challenge: submissions
// ranked by votes, each joined against the loaded recipe list. Submissions
// whose recipe no longer resolves are dropped silently rather than shown as
// broken rows.
func Resolve(challenge *api.Challenge, submissions []*api.Submission, recipes []*api.Recipe, viewerID string, now time.Time) []Entry {
	titles := make(map[string]string, len(recipes))
	for _, recipe := range recipes {
		titles[recipe.ID] = recipe.Title
	}

	entries := make([]Entry, 0, len(submissions))
	for _, submission := range Rank(submissions) {
		title, ok := titles[submission.RecipeID]
		if !ok {
			continue
		}

		entries = append(entries, Entry{
			Submission:  submission,
			RecipeTitle: title,
			CanVote:     CanVote(challenge, submission, viewerID, now),
		})
	}

	return entries
}
