package api

import (
	"context"
	"net/http"
)

// ListRecipes retrieves the recipe summaries used to resolve challenge
// submissions to titles.
func (c *Client) ListRecipes(ctx context.Context) ([]*Recipe, error) {
	var recipes []*Recipe

	req := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.url("/api/recipes"))

	if err := c.do(ctx, req, &recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}
