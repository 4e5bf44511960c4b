package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/pkg/client"
	"github.com/ladleapp/ladle/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.Handler, token string) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := client.NewClient(
		client.WithMarshalFunc(sonic.Marshal),
		client.WithUnmarshalFunc(sonic.Unmarshal),
	)

	return api.NewClient(httpClient, srv.URL, token, zaptest.NewLogger(t))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	data, err := sonic.Marshal(v)
	require.NoError(t, err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	require.NoError(t, err)
}

func TestListTips(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tips", r.URL.Path)
		writeJSON(t, w, []*api.Tip{{ID: "t1", Title: "Keep herbs fresh"}, {ID: "t2"}})
	}), "")

	tips, err := c.ListTips(context.Background())
	require.NoError(t, err)
	require.Len(t, tips, 2)
	assert.Equal(t, "Keep herbs fresh", tips[0].Title)
}

func TestSearchTips(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tips/search", r.URL.Path)
		assert.Equal(t, "garlic", r.URL.Query().Get("title"))
		writeJSON(t, w, []*api.Tip{{ID: "t1", Title: "Garlic storage"}})
	}), "")

	tips, err := c.SearchTips(context.Background(), "garlic")
	require.NoError(t, err)
	require.Len(t, tips, 1)
}

func TestTipsByCategory(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tips/category", r.URL.Path)
		assert.Equal(t, "Prep", r.URL.Query().Get("category"))
		writeJSON(t, w, []*api.Tip{})
	}), "")

	tips, err := c.TipsByCategory(context.Background(), api.CategoryPrep)
	require.NoError(t, err)
	assert.Empty(t, tips)
}

func TestMyTipsSendsBearerToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tips/my", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		writeJSON(t, w, []*api.Tip{{ID: "mine"}})
	}), "secret")

	tips, err := c.MyTips(context.Background())
	require.NoError(t, err)
	require.Len(t, tips, 1)
	assert.Equal(t, "mine", tips[0].ID)
}

func TestRateTip(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tips/t1/rate", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("rating"))
		assert.Equal(t, "viewer-1", r.URL.Query().Get("userId"))
		writeJSON(t, w, &api.Tip{ID: "t1", AverageRating: 4.2, RatingCount: 5})
	}), "")

	tip, err := c.RateTip(context.Background(), "t1", 4, "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, 5, tip.RatingCount)
	assert.InDelta(t, 4.2, tip.AverageRating, 0.001)
}

func TestUserRating(t *testing.T) {
	t.Parallel()

	t.Run("existing rating", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/tips/t1/user-rating", r.URL.Path)
			assert.Equal(t, "viewer-1", r.URL.Query().Get("userId"))
			writeJSON(t, w, 3)
		}), "")

		rating, err := c.UserRating(context.Background(), "t1", "viewer-1")
		require.NoError(t, err)
		assert.Equal(t, 3, rating)
	})

	t.Run("no rating yet", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, 0)
		}), "")

		rating, err := c.UserRating(context.Background(), "t1", "viewer-1")
		require.NoError(t, err)
		assert.Zero(t, rating)
	})
}

func TestCreateTip(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tips", r.URL.Path)

		var draft api.TipDraft
		require.NoError(t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "Freeze stock in cubes", draft.Title)
		assert.Equal(t, api.CategoryStorage, draft.Category)

		writeJSON(t, w, &api.Tip{ID: "new", Title: draft.Title, Category: draft.Category})
	}), "secret")

	tip, err := c.CreateTip(context.Background(), &api.TipDraft{
		Title:       "Freeze stock in cubes",
		Description: "Ice cube trays portion stock for single dishes.",
		Category:    api.CategoryStorage,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", tip.ID)
}

func TestDeleteTipErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: api.ErrNotFound},
		{name: "not owner", status: http.StatusForbidden, wantErr: api.ErrUnauthorized},
		{name: "server error", status: http.StatusInternalServerError, wantErr: api.ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}), "secret")

			err := c.DeleteTip(context.Background(), "t1")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCommentRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			assert.Equal(t, "/api/tips/t1/comments", r.URL.Path)
			writeJSON(t, w, &api.TipComment{ID: "c1", Text: "Worked great", Rating: 5})
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/api/tips/t1/comments/c1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			assert.Equal(t, "/api/tips/t1/comments", r.URL.Path)
			writeJSON(t, w, []*api.TipComment{{ID: "c1"}})
		}
	}), "")

	ctx := context.Background()

	comment, err := c.AddComment(ctx, "t1", &api.CommentDraft{Text: "Worked great", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "c1", comment.ID)

	comments, err := c.ListComments(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, comments, 1)

	require.NoError(t, c.DeleteComment(ctx, "t1", "c1"))
}

func TestErrorResponsesMapToSentinels(t *testing.T) {
	t.Parallel()

	// Error responses carry no JSON body; the status mapping must still win
	// on calls that decode a result on success.
	tests := []struct {
		name        string
		status      int
		expectedErr error
	}{
		{name: "not found", status: http.StatusNotFound, expectedErr: api.ErrNotFound},
		{name: "forbidden", status: http.StatusForbidden, expectedErr: api.ErrUnauthorized},
		{name: "server error", status: http.StatusInternalServerError, expectedErr: api.ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}), "token")

			_, err := c.RateTip(context.Background(), "t1", 4, "viewer")
			require.ErrorIs(t, err, tt.expectedErr)

			_, err = c.ListTips(context.Background())
			require.ErrorIs(t, err, tt.expectedErr)

			_, err = c.UserRating(context.Background(), "t1", "viewer")
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
