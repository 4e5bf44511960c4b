package tips

import (
	"context"
	"sync"

	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/internal/session"
	"github.com/ladleapp/ladle/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// View selects which tip list the controller shows.
type View int

const (
	// ViewAll shows every tip, with filtering delegated to the service.
	ViewAll View = iota
	// ViewMine shows the viewer's own tips, filtered locally.
	ViewMine
)

// Controller loads tip lists from the service and reconciles the viewer's
// rating state against them. Loads are tagged with a generation counter so a
// response that arrives after a newer load started is discarded instead of
// clobbering fresh state.
type Controller struct {
	api      *api.Client
	store    *session.Store
	viewerID string
	logger   *zap.Logger

	mu         sync.Mutex
	generation uint64
	tips       []*api.Tip
	ratings    *RatingReconciler
}

// NewController creates a tip controller for the given viewer. Previously
// persisted ratings seed the reconciler so stars render correctly before
// the first preload completes.
func NewController(apiClient *api.Client, store *session.Store, viewerID string, logger *zap.Logger) (*Controller, error) {
	seed, err := store.Ratings()
	if err != nil {
		return nil, err
	}

	return &Controller{
		api:      apiClient,
		store:    store,
		viewerID: viewerID,
		logger:   logger.Named("tips"),
		ratings:  NewRatingReconciler(seed),
	}, nil
}

// Tips returns a copy of the currently loaded list.
func (c *Controller) Tips() []*api.Tip {
	c.mu.Lock()
	defer c.mu.Unlock()

	tips := make([]*api.Tip, len(c.tips))
	copy(tips, c.tips)

	return tips
}

// MostRated returns the most-rated tip of the current list, or nil when the
// list is empty.
func (c *Controller) MostRated() *api.Tip {
	c.mu.Lock()
	defer c.mu.Unlock()

	return MostRated(c.tips)
}

// DisplayRating resolves the star value to show for a tip, given the star
// currently under the pointer (0 when none).
func (c *Controller) DisplayRating(tip *api.Tip, hover int) int {
	return DisplayRating(hover, c.ratings.Committed(tip.ID), tip.AverageRating)
}

// RatingStateFor exposes the rating lifecycle state for a tip.
func (c *Controller) RatingStateFor(tipID string) (RatingState, int) {
	return c.ratings.State(tipID)
}

// Load fetches the given view's tip list and preloads the viewer's existing
// ratings for it. Safe to call again while a previous load is in flight;
// only the most recently started load is applied.
func (c *Controller) Load(ctx context.Context, view View) error {
	gen := c.nextGeneration()

	fetch := c.api.ListTips
	if view == ViewMine {
		fetch = c.api.MyTips
	}

	tips, err := utils.WithRetry(ctx, func() ([]*api.Tip, error) {
		return fetch(ctx)
	}, utils.GetAPIRetryOptions())
	if err != nil {
		return err
	}

	c.preloadRatings(ctx, tips)

	if !c.apply(gen, tips) {
		c.logger.Debug("Discarded stale tip list", zap.Uint64("generation", gen))
	}

	return nil
}

// Search asks the service for tips whose title matches the query and makes
// the result the current list.
func (c *Controller) Search(ctx context.Context, query string) error {
	gen := c.nextGeneration()

	tips, err := utils.WithRetry(ctx, func() ([]*api.Tip, error) {
		return c.api.SearchTips(ctx, query)
	}, utils.GetAPIRetryOptions())
	if err != nil {
		return err
	}

	c.preloadRatings(ctx, tips)
	c.apply(gen, tips)

	return nil
}

// ByCategory loads the tips of one category from the service.
func (c *Controller) ByCategory(ctx context.Context, category api.Category) error {
	gen := c.nextGeneration()

	tips, err := utils.WithRetry(ctx, func() ([]*api.Tip, error) {
		return c.api.TipsByCategory(ctx, category)
	}, utils.GetAPIRetryOptions())
	if err != nil {
		return err
	}

	c.preloadRatings(ctx, tips)
	c.apply(gen, tips)

	return nil
}

// Featured loads the featured tips from the service.
func (c *Controller) Featured(ctx context.Context) error {
	gen := c.nextGeneration()

	tips, err := utils.WithRetry(ctx, func() ([]*api.Tip, error) {
		return c.api.FeaturedTips(ctx)
	}, utils.GetAPIRetryOptions())
	if err != nil {
		return err
	}

	c.preloadRatings(ctx, tips)
	c.apply(gen, tips)

	return nil
}

// TipOfTheDay fetches the service's current pick. It is decoration on the
// main list, so it retries on the background schedule.
func (c *Controller) TipOfTheDay(ctx context.Context) (*api.Tip, error) {
	return utils.WithRetry(ctx, func() (*api.Tip, error) {
		return c.api.TipOfTheDay(ctx)
	}, utils.GetBackgroundRetryOptions())
}

// FilterMine narrows the loaded list locally by query and category, for the
// viewer's own tips where the service offers no filter endpoints.
func (c *Controller) FilterMine(query string, category api.Category) []*api.Tip {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Filter(c.tips, query, category)
}

// SubmitRating rates a tip on the viewer's behalf. The rating is committed
// locally the moment the service confirms it, the updated aggregates from
// the response are merged into the current list, and the committed value is
// persisted for the next run. On failure the previous rating state is
// restored untouched.
func (c *Controller) SubmitRating(ctx context.Context, tipID string, value int) error {
	if err := c.ratings.Begin(tipID, value); err != nil {
		return err
	}

	updated, err := c.api.RateTip(ctx, tipID, value, c.viewerID)
	if err != nil {
		c.ratings.Fail(tipID)
		return err
	}

	c.ratings.Succeed(tipID)

	if err := c.store.SaveRating(tipID, value); err != nil {
		c.logger.Warn("Failed to persist rating", zap.String("tipID", tipID), zap.Error(err))
	}

	c.mergeTip(updated)

	return nil
}

// mergeTip replaces the list entry matching the updated tip so aggregates
// reflect the response without waiting for the next full load.
func (c *Controller) mergeTip(updated *api.Tip) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, tip := range c.tips {
		if tip.ID == updated.ID {
			c.tips[i] = updated
			return
		}
	}
}

// preloadRatings asks the service for the viewer's existing rating on each
// tip the reconciler has no value for. Individual failures are logged and
// skipped; the list still loads.
func (c *Controller) preloadRatings(ctx context.Context, tips []*api.Tip) {
	p := pool.New().WithContext(ctx)

	for _, tip := range tips {
		if c.ratings.Committed(tip.ID) != 0 {
			continue
		}

		p.Go(func(ctx context.Context) error {
			rating, err := utils.WithRetry(ctx, func() (int, error) {
				return c.api.UserRating(ctx, tip.ID, c.viewerID)
			}, utils.GetBackgroundRetryOptions())
			if err != nil {
				c.logger.Debug("Failed to preload rating",
					zap.String("tipID", tip.ID),
					zap.Error(err))
				return nil // Don't fail the whole batch for one error
			}

			if rating != 0 {
				c.ratings.SetCommitted(tip.ID, rating)
			}

			return nil
		})
	}

	_ = p.Wait()
}

func (c *Controller) nextGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++

	return c.generation
}

// apply installs a fetched list unless a newer load has started since.
func (c *Controller) apply(gen uint64, tips []*api.Tip) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false
	}

	c.tips = tips

	return true
}
