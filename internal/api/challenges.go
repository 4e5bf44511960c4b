package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ActiveChallenges retrieves the challenges created by the given user that
// are still accepting submissions.
func (c *Client) ActiveChallenges(ctx context.Context, userID string) ([]*Challenge, error) {
	return c.listChallenges(ctx, "/api/challenges/active", userID)
}

// PastChallenges retrieves the given user's challenges whose end date has
// passed.
func (c *Client) PastChallenges(ctx context.Context, userID string) ([]*Challenge, error) {
	return c.listChallenges(ctx, "/api/challenges/past", userID)
}

// AllActiveChallenges retrieves every currently running challenge regardless
// of creator.
func (c *Client) AllActiveChallenges(ctx context.Context) ([]*Challenge, error) {
	return c.listChallenges(ctx, "/api/challenges/all-active", "")
}

func (c *Client) listChallenges(ctx context.Context, path, userID string) ([]*Challenge, error) {
	var challenges []*Challenge

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url(path))
	if userID != "" {
		req = req.Query("userId", userID)
	}

	if err := c.do(ctx, c.authorized(req), &challenges); err != nil {
		return nil, err
	}

	return challenges, nil
}

// CreateChallenge submits a new challenge owned by the authenticated user.
// The form's Title, Theme, Description, StartDate, and EndDate must all be
// set; the image is optional.
func (c *Client) CreateChallenge(ctx context.Context, form *ChallengeForm) (*Challenge, error) {
	return c.sendChallengeForm(ctx, http.MethodPost, c.url("/api/challenges"), form)
}

// UpdateChallenge edits an existing challenge. Fields left nil on the form
// are omitted from the request, and the service retains their stored values.
// The service rejects the call when the caller is not the creator.
func (c *Client) UpdateChallenge(ctx context.Context, challengeID string, form *ChallengeForm) (*Challenge, error) {
	return c.sendChallengeForm(ctx, http.MethodPut, c.url("/api/challenges/"+challengeID), form)
}

func (c *Client) sendChallengeForm(ctx context.Context, method, url string, form *ChallengeForm) (*Challenge, error) {
	body, contentType, err := encodeChallengeForm(form)
	if err != nil {
		return nil, err
	}

	var challenge Challenge

	req := c.authorized(c.http.NewRequest().
		Method(method).
		URL(url).
		Header("Content-Type", contentType).
		Body(body))

	if err := c.do(ctx, req, &challenge); err != nil {
		return nil, err
	}

	return &challenge, nil
}

// encodeChallengeForm writes the non-nil form fields into a multipart body.
// Dates are sent in RFC 3339 so the service can parse them unambiguously.
func encodeChallengeForm(form *ChallengeForm) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct {
		name  string
		value *string
	}{
		{"title", form.Title},
		{"theme", form.Theme},
		{"description", form.Description},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}

		if err := w.WriteField(f.name, *f.value); err != nil {
			return nil, "", fmt.Errorf("write %s field: %w", f.name, err)
		}
	}

	dates := []struct {
		name  string
		value *time.Time
	}{
		{"startDate", form.StartDate},
		{"endDate", form.EndDate},
	}
	for _, d := range dates {
		if d.value == nil {
			continue
		}

		if err := w.WriteField(d.name, d.value.Format(time.RFC3339)); err != nil {
			return nil, "", fmt.Errorf("write %s field: %w", d.name, err)
		}
	}

	if form.Image != nil {
		part, err := w.CreateFormFile("image", form.ImageName)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}

		if _, err := io.Copy(part, form.Image); err != nil {
			return nil, "", fmt.Errorf("copy image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// DeleteChallenge removes a challenge. The requester id travels as a query
// parameter so the service can verify ownership.
func (c *Client) DeleteChallenge(ctx context.Context, challengeID, requesterID string) error {
	req := c.authorized(c.http.NewRequest().
		Method(http.MethodDelete).
		URL(c.url("/api/challenges/"+challengeID)).
		Query("requesterId", requesterID))

	return c.do(ctx, req, nil)
}

// SubmitRecipe enters one of the user's recipes into a challenge and returns
// the challenge with the new submission included.
func (c *Client) SubmitRecipe(ctx context.Context, challengeID, recipeID, userID string) (*Challenge, error) {
	var challenge Challenge

	req := c.authorized(c.http.NewRequest().
		Method(http.MethodPost).
		URL(c.url("/api/challenges/"+challengeID+"/submissions")).
		Query("recipeId", recipeID).
		Query("userId", userID))

	if err := c.do(ctx, req, &challenge); err != nil {
		return nil, err
	}

	return &challenge, nil
}

// VoteForSubmission casts the viewer's vote for a submission and returns the
// challenge with updated tallies. The service rejects a second vote by the
// same viewer on the same submission.
func (c *Client) VoteForSubmission(ctx context.Context, challengeID, recipeID, viewerID string) (*Challenge, error) {
	var challenge Challenge

	req := c.authorized(c.http.NewRequest().
		Method(http.MethodPost).
		URL(c.url("/api/challenges/"+challengeID+"/submissions/"+recipeID+"/vote")).
		Query("userId", viewerID))

	if err := c.do(ctx, req, &challenge); err != nil {
		return nil, err
	}

	return &challenge, nil
}

// Leaderboard retrieves a challenge's submissions ordered by vote count,
// highest first.
func (c *Client) Leaderboard(ctx context.Context, challengeID string) ([]*Submission, error) {
	var submissions []*Submission

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/challenges/" + challengeID + "/leaderboard"))

	if err := c.do(ctx, req, &submissions); err != nil {
		return nil, err
	}

	return submissions, nil
}
