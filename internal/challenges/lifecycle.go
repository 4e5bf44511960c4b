package challenges

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/pkg/utils"
)

var (
	// ErrMissingFields is returned when a new challenge lacks required fields.
	ErrMissingFields = errors.New("title, theme, description, and dates are required")
	// ErrEndDateTooEarly is returned when the end date is not strictly after
	// both the start date and the current time.
	ErrEndDateTooEarly = errors.New("end date must be after the start date and in the future")
	// ErrStartDateImmutable is returned when editing tries to move the start date.
	ErrStartDateImmutable = errors.New("start date cannot be changed after creation")
	// ErrNotSubmittable is returned when Submit is called in a phase that
	// does not accept it.
	ErrNotSubmittable = errors.New("form is not in a submittable phase")
)

// FormPhase is the lifecycle phase of a challenge form.
type FormPhase int

const (
	// PhaseDraft is a new, not yet submitted challenge.
	PhaseDraft FormPhase = iota
	// PhaseEditing is an existing challenge being modified.
	PhaseEditing
	// PhaseSubmitted means the request is on its way to the service.
	PhaseSubmitted
	// PhaseCreated means the service accepted a new challenge.
	PhaseCreated
	// PhaseUpdated means the service accepted an edit.
	PhaseUpdated
	// PhaseRejected means the service or validation refused the form; the
	// form returns to its editable phase so the user can correct it.
	PhaseRejected
)

// Form drives a challenge through creation or editing. A form created with
// NewEditForm keeps the original's start date fixed; only the remaining
// fields may change.
type Form struct {
	phase    FormPhase
	existing *api.Challenge
	err      error

	Title       string
	Theme       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	ImageName   string
	Image       io.Reader
}

// NewCreateForm returns an empty form for a brand-new challenge.
func NewCreateForm() *Form {
	return &Form{phase: PhaseDraft}
}

// NewEditForm returns a form prefilled from an existing challenge.
func NewEditForm(challenge *api.Challenge) *Form {
	return &Form{
		phase:       PhaseEditing,
		existing:    challenge,
		Title:       challenge.Title,
		Theme:       challenge.Theme,
		Description: challenge.Description,
		StartDate:   challenge.StartDate,
		EndDate:     challenge.EndDate,
	}
}

// Phase returns the form's current lifecycle phase.
func (f *Form) Phase() FormPhase { return f.phase }

// Err returns the error that put the form into PhaseRejected, if any.
func (f *Form) Err() error { return f.err }

// Editing reports whether the form modifies an existing challenge.
func (f *Form) Editing() bool { return f.existing != nil }

// SetStartDate changes the start date on a create form. Editing an existing
// challenge cannot move its start date.
func (f *Form) SetStartDate(t time.Time) error {
	if f.Editing() {
		return ErrStartDateImmutable
	}

	f.StartDate = t

	return nil
}

// Validate checks the form against the rules the service enforces, so bad
// input never leaves the client: required fields on creation, and an end
// date strictly after both the start date and now.
func (f *Form) Validate(now time.Time) error {
	if !f.Editing() {
		if f.Title == "" || f.Theme == "" || f.Description == "" || f.StartDate.IsZero() || f.EndDate.IsZero() {
			return ErrMissingFields
		}
	}

	floor := now
	if f.StartDate.After(floor) {
		floor = f.StartDate
	}
	if !f.EndDate.After(floor) {
		return ErrEndDateTooEarly
	}

	return nil
}

// Submit validates the form and sends it to the service. On success the
// phase becomes PhaseCreated or PhaseUpdated and the accepted challenge is
// returned. On any failure the phase passes through PhaseRejected and
// settles back in the editable phase with Err set, so the user can fix and
// resubmit.
func (f *Form) Submit(ctx context.Context, client *api.Client, now time.Time) (*api.Challenge, error) {
	if f.phase != PhaseDraft && f.phase != PhaseEditing && f.phase != PhaseRejected {
		return nil, ErrNotSubmittable
	}

	editable := PhaseDraft
	if f.Editing() {
		editable = PhaseEditing
	}

	if err := f.Validate(now); err != nil {
		f.phase, f.err = editable, err
		return nil, err
	}

	f.phase, f.err = PhaseSubmitted, nil

	var (
		challenge *api.Challenge
		err       error
	)
	if f.Editing() {
		challenge, err = client.UpdateChallenge(ctx, f.existing.ID, f.payload())
	} else {
		challenge, err = client.CreateChallenge(ctx, f.payload())
	}

	if err != nil {
		f.phase, f.err = PhaseRejected, err
		return nil, err
	}

	if f.Editing() {
		f.phase = PhaseUpdated
	} else {
		f.phase = PhaseCreated
	}

	return challenge, nil
}

// payload maps the form onto the request structure. On edit, fields equal
// to the stored challenge are left nil so the service retains them; the
// start date is never sent on edit at all.
func (f *Form) payload() *api.ChallengeForm {
	form := &api.ChallengeForm{
		ImageName: f.ImageName,
		Image:     f.Image,
	}

	if !f.Editing() {
		form.Title = utils.Ptr(f.Title)
		form.Theme = utils.Ptr(f.Theme)
		form.Description = utils.Ptr(f.Description)
		form.StartDate = utils.Ptr(f.StartDate)
		form.EndDate = utils.Ptr(f.EndDate)

		return form
	}

	if f.Title != f.existing.Title {
		form.Title = utils.Ptr(f.Title)
	}
	if f.Theme != f.existing.Theme {
		form.Theme = utils.Ptr(f.Theme)
	}
	if f.Description != f.existing.Description {
		form.Description = utils.Ptr(f.Description)
	}
	if !f.EndDate.Equal(f.existing.EndDate) {
		form.EndDate = utils.Ptr(f.EndDate)
	}

	return form
}
