package challenges

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/pkg/utils"
	"go.uber.org/zap"
)

// ErrVoteIneligible is returned when a vote is attempted for a submission
// the viewer may not vote on. The attempt is a no-op.
var ErrVoteIneligible = errors.New("viewer is not eligible to vote for this submission")

// ErrUnknownSubmission is returned when a vote targets a recipe that is not
// among the challenge's submissions.
var ErrUnknownSubmission = errors.New("no submission for this recipe")

// Scope selects which challenge list the controller loads.
type Scope int

const (
	// ScopeMineActive loads the viewer's running challenges.
	ScopeMineActive Scope = iota
	// ScopeMinePast loads the viewer's ended challenges.
	ScopeMinePast
	// ScopeAllActive loads every running challenge.
	ScopeAllActive
)

// Controller loads challenges, leaderboards, and recipes from the service
// and applies the voting rules before any mutation leaves the client. Tally
// changes always come from a full refetch of the authoritative state, never
// from a local increment.
type Controller struct {
	api      *api.Client
	viewerID string
	logger   *zap.Logger
	now      func() time.Time

	mu         sync.Mutex
	generation uint64
	challenges []*api.Challenge
	recipes    []*api.Recipe
}

// NewController creates a challenge controller for the given viewer.
func NewController(apiClient *api.Client, viewerID string, logger *zap.Logger) *Controller {
	return &Controller{
		api:      apiClient,
		viewerID: viewerID,
		logger:   logger.Named("challenges"),
		now:      time.Now,
	}
}

// Challenges returns a copy of the currently loaded list.
func (c *Controller) Challenges() []*api.Challenge {
	c.mu.Lock()
	defer c.mu.Unlock()

	challenges := make([]*api.Challenge, len(c.challenges))
	copy(challenges, c.challenges)

	return challenges
}

// Load fetches the given scope's challenge list along with the recipe list
// used to resolve submissions. Only the most recently started load is
// applied, so a slow response cannot overwrite fresher state.
func (c *Controller) Load(ctx context.Context, scope Scope) error {
	gen := c.nextGeneration()

	challenges, err := utils.WithRetry(ctx, func() ([]*api.Challenge, error) {
		switch scope {
		case ScopeMinePast:
			return c.api.PastChallenges(ctx, c.viewerID)
		case ScopeAllActive:
			return c.api.AllActiveChallenges(ctx)
		default:
			return c.api.ActiveChallenges(ctx, c.viewerID)
		}
	}, utils.GetAPIRetryOptions())
	if err != nil {
		return err
	}

	recipes, err := utils.WithRetry(ctx, func() ([]*api.Recipe, error) {
		return c.api.ListRecipes(ctx)
	}, utils.GetAPIRetryOptions())
	if err != nil {
		return err
	}

	if !c.apply(gen, challenges, recipes) {
		c.logger.Debug("Discarded stale challenge list", zap.Uint64("generation", gen))
	}

	return nil
}

// Leaderboard fetches a challenge's submissions and resolves them into
// displayable entries for the viewer.
func (c *Controller) Leaderboard(ctx context.Context, challenge *api.Challenge) ([]Entry, error) {
	submissions, err := utils.WithRetry(ctx, func() ([]*api.Submission, error) {
		return c.api.Leaderboard(ctx, challenge.ID)
	}, utils.GetAPIRetryOptions())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	recipes := c.recipes
	c.mu.Unlock()

	return Resolve(challenge, submissions, recipes, c.viewerID, c.now()), nil
}

// CastVote votes for a submission after re-validating eligibility,
// regardless of what the view allowed. On success the authoritative
// challenge state replaces the local copy via a full reload; a failed vote
// changes nothing.
func (c *Controller) CastVote(ctx context.Context, challenge *api.Challenge, recipeID string) error {
	submission := findSubmission(challenge, recipeID)
	if submission == nil {
		return ErrUnknownSubmission
	}

	if !CanVote(challenge, submission, c.viewerID, c.now()) {
		return ErrVoteIneligible
	}

	if _, err := c.api.VoteForSubmission(ctx, challenge.ID, recipeID, c.viewerID); err != nil {
		return err
	}

	return c.Load(ctx, ScopeAllActive)
}

// SubmitRecipe enters one of the viewer's recipes into a challenge and
// reloads so the submission list reflects the service's state.
func (c *Controller) SubmitRecipe(ctx context.Context, challengeID, recipeID string) error {
	if _, err := c.api.SubmitRecipe(ctx, challengeID, recipeID, c.viewerID); err != nil {
		return err
	}

	return c.Load(ctx, ScopeAllActive)
}

// StartDelete begins the two-step deletion of a challenge on the viewer's
// behalf.
func (c *Controller) StartDelete(challengeID string) *DeleteFlow {
	return NewDeleteFlow(challengeID, c.viewerID)
}

// ConfirmDelete commits an armed deletion and reloads the challenge list.
func (c *Controller) ConfirmDelete(ctx context.Context, flow *DeleteFlow) error {
	if err := flow.Confirm(ctx, c.api); err != nil {
		return err
	}

	return c.Load(ctx, ScopeAllActive)
}

func findSubmission(challenge *api.Challenge, recipeID string) *api.Submission {
	for _, submission := range challenge.Submissions {
		if submission.RecipeID == recipeID {
			return submission
		}
	}

	return nil
}

func (c *Controller) nextGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++

	return c.generation
}

func (c *Controller) apply(gen uint64, challenges []*api.Challenge, recipes []*api.Recipe) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false
	}

	c.challenges = challenges
	c.recipes = recipes

	return true
}
