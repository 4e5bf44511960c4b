package api

import (
	"context"
	"net/http"
	"strconv"
)

// ListTips retrieves every tip on the service.
func (c *Client) ListTips(ctx context.Context) ([]*Tip, error) {
	var tips []*Tip

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/tips"))

	if err := c.do(ctx, req, &tips); err != nil {
		return nil, err
	}

	return tips, nil
}

// MyTips retrieves the tips owned by the authenticated user.
func (c *Client) MyTips(ctx context.Context) ([]*Tip, error) {
	var tips []*Tip

	req := c.authorized(c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/tips/my")))

	if err := c.do(ctx, req, &tips); err != nil {
		return nil, err
	}

	return tips, nil
}

// SearchTips retrieves tips whose title contains the query, case-insensitive.
func (c *Client) SearchTips(ctx context.Context, title string) ([]*Tip, error) {
	var tips []*Tip

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/tips/search")).
		Query("title", title)

	if err := c.do(ctx, req, &tips); err != nil {
		return nil, err
	}

	return tips, nil
}

// TipsByCategory retrieves tips in the given category.
func (c *Client) TipsByCategory(ctx context.Context, category Category) ([]*Tip, error) {
	var tips []*Tip

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/tips/category")).
		Query("category", string(category))

	if err := c.do(ctx, req, &tips); err != nil {
		return nil, err
	}

	return tips, nil
}

// FeaturedTips retrieves the tips flagged as featured by the service.
func (c *Client) FeaturedTips(ctx context.Context) ([]*Tip, error) {
	var tips []*Tip

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/tips/featured"))

	if err := c.do(ctx, req, &tips); err != nil {
		return nil, err
	}

	return tips, nil
}

// TipOfTheDay retrieves the service's pick for the current tip of the day.
func (c *Client) TipOfTheDay(ctx context.Context) (*Tip, error) {
	var tip Tip

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/tips/tip-of-the-day"))

	if err := c.do(ctx, req, &tip); err != nil {
		return nil, err
	}

	return &tip, nil
}

// CreateTip submits a new tip owned by the authenticated user.
func (c *Client) CreateTip(ctx context.Context, draft *TipDraft) (*Tip, error) {
	var tip Tip

	req := c.authorized(c.http.NewRequest().
		Method(http.MethodPost).
		URL(c.url("/api/tips")).
		MarshalBody(draft).
		Header("Content-Type", "application/json"))

	if err := c.do(ctx, req, &tip); err != nil {
		return nil, err
	}

	return &tip, nil
}

// UpdateTip replaces the editable fields of a tip. The service enforces that
// only the owner may update.
func (c *Client) UpdateTip(ctx context.Context, tipID string, draft *TipDraft) (*Tip, error) {
	var tip Tip

	req := c.authorized(c.http.NewRequest().
		Method(http.MethodPut).
		URL(c.url("/api/tips/"+tipID)).
		MarshalBody(draft).
		Header("Content-Type", "application/json"))

	if err := c.do(ctx, req, &tip); err != nil {
		return nil, err
	}

	return &tip, nil
}

// DeleteTip removes a tip. The service enforces that only the owner may delete.
func (c *Client) DeleteTip(ctx context.Context, tipID string) error {
	req := c.authorized(c.http.NewRequest().
		Method(http.MethodDelete).
		URL(c.url("/api/tips/" + tipID)))

	return c.do(ctx, req, nil)
}

// RateTip records the viewer's 1-5 rating for a tip and returns the tip with
// refreshed aggregates. Re-rating overwrites the viewer's previous value.
func (c *Client) RateTip(ctx context.Context, tipID string, rating int, viewerID string) (*Tip, error) {
	var tip Tip

	req := c.authorized(c.http.NewRequest().
		Method(http.MethodPut).
		URL(c.url("/api/tips/"+tipID+"/rate")).
		Query("rating", strconv.Itoa(rating)).
		Query("userId", viewerID))

	if err := c.do(ctx, req, &tip); err != nil {
		return nil, err
	}

	return &tip, nil
}

// UserRating retrieves the viewer's existing rating for a tip. The service
// returns 0 when the viewer has not rated the tip.
func (c *Client) UserRating(ctx context.Context, tipID, viewerID string) (int, error) {
	var rating int

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/tips/"+tipID+"/user-rating")).
		Query("userId", viewerID)

	if err := c.do(ctx, req, &rating); err != nil {
		return 0, err
	}

	return rating, nil
}

// ListComments retrieves the comments on a tip, newest first.
func (c *Client) ListComments(ctx context.Context, tipID string) ([]*TipComment, error) {
	var comments []*TipComment

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/tips/" + tipID + "/comments"))

	if err := c.do(ctx, req, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

// AddComment creates a comment on a tip and returns it with the server-set
// id, author, and timestamp.
func (c *Client) AddComment(ctx context.Context, tipID string, draft *CommentDraft) (*TipComment, error) {
	var comment TipComment

	req := c.authorized(c.http.NewRequest().
		Method(http.MethodPost).
		URL(c.url("/api/tips/"+tipID+"/comments")).
		MarshalBody(draft).
		Header("Content-Type", "application/json"))

	if err := c.do(ctx, req, &comment); err != nil {
		return nil, err
	}

	return &comment, nil
}

// UpdateComment edits a comment. The service rejects the call when the
// caller is not the comment's author.
func (c *Client) UpdateComment(ctx context.Context, tipID, commentID string, draft *CommentDraft) (*TipComment, error) {
	var comment TipComment

	req := c.authorized(c.http.NewRequest().
		Method(http.MethodPut).
		URL(c.url("/api/tips/"+tipID+"/comments/"+commentID)).
		MarshalBody(draft).
		Header("Content-Type", "application/json"))

	if err := c.do(ctx, req, &comment); err != nil {
		return nil, err
	}

	return &comment, nil
}

// DeleteComment removes a comment. The service rejects the call when the
// caller is not the comment's author.
func (c *Client) DeleteComment(ctx context.Context, tipID, commentID string) error {
	req := c.authorized(c.http.NewRequest().
		Method(http.MethodDelete).
		URL(c.url("/api/tips/" + tipID + "/comments/" + commentID)))

	return c.do(ctx, req, nil)
}
