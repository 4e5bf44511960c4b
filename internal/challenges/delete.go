package challenges

import (
	"context"
	"errors"

	"github.com/ladleapp/ladle/internal/api"
)

// ErrDeleteNotRequested is returned when Confirm runs without a preceding
// Request.
var ErrDeleteNotRequested = errors.New("deletion was not requested")

// DeleteFlow enforces the two-step deletion gesture: a delete must be
// requested first and explicitly confirmed before anything is sent to the
// service. Cancel at any point aborts without side effects.
type DeleteFlow struct {
	challengeID string
	requesterID string
	requested   bool
}

// NewDeleteFlow prepares a deletion of the given challenge on behalf of the
// requester.
func NewDeleteFlow(challengeID, requesterID string) *DeleteFlow {
	return &DeleteFlow{challengeID: challengeID, requesterID: requesterID}
}

// Request arms the flow. Nothing is sent yet.
func (d *DeleteFlow) Request() { d.requested = true }

// Pending reports whether the flow is awaiting confirmation.
func (d *DeleteFlow) Pending() bool { return d.requested }

// Cancel disarms the flow without touching the service.
func (d *DeleteFlow) Cancel() { d.requested = false }

// Confirm commits the armed deletion. It refuses to run unless Request came
// first, so a stray confirm keystroke can never delete anything.
func (d *DeleteFlow) Confirm(ctx context.Context, client *api.Client) error {
	if !d.requested {
		return ErrDeleteNotRequested
	}

	if err := client.DeleteChallenge(ctx, d.challengeID, d.requesterID); err != nil {
		return err
	}

	d.requested = false

	return nil
}
