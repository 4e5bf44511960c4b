package tips

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidRating is returned for rating values outside 1-5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// RatingState is the lifecycle of the viewer's rating for one tip.
type RatingState int

const (
	// RatingUnrated means the viewer has never rated the tip.
	RatingUnrated RatingState = iota
	// RatingInFlight means a rate request is outstanding.
	RatingInFlight
	// RatingCommitted means the service confirmed the viewer's rating.
	RatingCommitted
)

// RatingReconciler tracks the viewer's per-tip rating through the
// submit/confirm/revert cycle. Committed values only change on confirmed
// responses; a failed attempt restores whatever value existed before it.
// Ratings for different tips are independent, so concurrent attempts on
// different tips never interfere.
type RatingReconciler struct {
	mu        sync.Mutex
	committed map[string]int
	pending   map[string]int
}

// NewRatingReconciler creates a reconciler seeded with previously committed
// ratings, typically the ones persisted from an earlier run.
func NewRatingReconciler(seed map[string]int) *RatingReconciler {
	committed := make(map[string]int, len(seed))
	for tipID, value := range seed {
		committed[tipID] = value
	}

	return &RatingReconciler{
		committed: committed,
		pending:   make(map[string]int),
	}
}

// Begin marks a rate attempt as in flight. A second Begin on the same tip
// overwrites the pending value; the last confirmed response wins.
func (r *RatingReconciler) Begin(tipID string, value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, value)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending[tipID] = value

	return nil
}

// Succeed commits the pending value for a tip. No-op when nothing is
// pending, which happens when a late response arrives after a newer attempt
// already resolved.
func (r *RatingReconciler) Succeed(tipID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := r.pending[tipID]
	if !ok {
		return
	}

	delete(r.pending, tipID)
	r.committed[tipID] = value
}

// Fail abandons the pending value, leaving the committed rating exactly as
// it was before the attempt.
func (r *RatingReconciler) Fail(tipID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, tipID)
}

// State returns the tip's rating lifecycle state and the value attached to
// it: the pending value while in flight, the committed value once
// confirmed, zero otherwise.
func (r *RatingReconciler) State(tipID string) (RatingState, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if value, ok := r.pending[tipID]; ok {
		return RatingInFlight, value
	}
	if value, ok := r.committed[tipID]; ok {
		return RatingCommitted, value
	}

	return RatingUnrated, 0
}

// Committed returns the viewer's confirmed rating for a tip, or 0 when none
// exists. In-flight values are excluded so a failed attempt never shows up.
func (r *RatingReconciler) Committed(tipID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.committed[tipID]
}

// SetCommitted records a service-confirmed rating directly, bypassing the
// in-flight cycle. Used when the service reports an existing rating during
// list preload.
func (r *RatingReconciler) SetCommitted(tipID string, value int) {
	if value < 1 || value > 5 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.committed[tipID] = value
}
