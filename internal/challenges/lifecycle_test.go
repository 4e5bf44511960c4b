package challenges_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/pkg/client"
	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/internal/challenges"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newAPIClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := client.NewClient(
		client.WithMarshalFunc(sonic.Marshal),
		client.WithUnmarshalFunc(sonic.Unmarshal),
	)

	return api.NewClient(httpClient, srv.URL, "", zaptest.NewLogger(t))
}

func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	data, err := sonic.Marshal(v)
	require.NoError(t, err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	require.NoError(t, err)
}

func TestFormValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("missing fields on create", func(t *testing.T) {
		t.Parallel()

		form := challenges.NewCreateForm()
		form.Title = "Soup week"

		require.ErrorIs(t, form.Validate(now), challenges.ErrMissingFields)
	})

	t.Run("end date before start date", func(t *testing.T) {
		t.Parallel()

		form := challenges.NewCreateForm()
		form.Title, form.Theme, form.Description = "Soup week", "Soups", "Two weeks of soup."
		require.NoError(t, form.SetStartDate(now.Add(48*time.Hour)))
		form.EndDate = now.Add(24 * time.Hour)

		require.ErrorIs(t, form.Validate(now), challenges.ErrEndDateTooEarly)
	})

	t.Run("end date in the past", func(t *testing.T) {
		t.Parallel()

		form := challenges.NewCreateForm()
		form.Title, form.Theme, form.Description = "Soup week", "Soups", "Two weeks of soup."
		require.NoError(t, form.SetStartDate(now.Add(-72*time.Hour)))
		form.EndDate = now.Add(-time.Hour)

		require.ErrorIs(t, form.Validate(now), challenges.ErrEndDateTooEarly)
	})

	t.Run("valid create form", func(t *testing.T) {
		t.Parallel()

		form := challenges.NewCreateForm()
		form.Title, form.Theme, form.Description = "Soup week", "Soups", "Two weeks of soup."
		require.NoError(t, form.SetStartDate(now))
		form.EndDate = now.Add(14 * 24 * time.Hour)

		require.NoError(t, form.Validate(now))
	})

	t.Run("edit keeps started challenge editable", func(t *testing.T) {
		t.Parallel()

		// A running challenge started in the past; extending its end date
		// must validate against now, not the old start.
		form := challenges.NewEditForm(&api.Challenge{
			ID:        "ch1",
			Title:     "Soup week",
			StartDate: now.Add(-72 * time.Hour),
			EndDate:   now.Add(24 * time.Hour),
		})
		form.EndDate = now.Add(48 * time.Hour)

		require.NoError(t, form.Validate(now))
	})
}

func TestFormStartDateImmutableOnEdit(t *testing.T) {
	t.Parallel()

	form := challenges.NewEditForm(&api.Challenge{ID: "ch1", StartDate: time.Now()})

	err := form.SetStartDate(time.Now().Add(time.Hour))
	require.ErrorIs(t, err, challenges.ErrStartDateImmutable)
}

func TestFormSubmitCreate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	apiClient := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Soup week", r.FormValue("title"))
		respondJSON(t, w, &api.Challenge{ID: "ch1", Title: "Soup week"})
	}))

	form := challenges.NewCreateForm()
	form.Title, form.Theme, form.Description = "Soup week", "Soups", "Two weeks of soup."
	require.NoError(t, form.SetStartDate(now))
	form.EndDate = now.Add(14 * 24 * time.Hour)

	challenge, err := form.Submit(context.Background(), apiClient, now)
	require.NoError(t, err)
	assert.Equal(t, "ch1", challenge.ID)
	assert.Equal(t, challenges.PhaseCreated, form.Phase())
}

func TestFormSubmitEditOmitsUnchangedFields(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	existing := &api.Challenge{
		ID:          "ch1",
		Title:       "Soup week",
		Theme:       "Soups",
		Description: "Two weeks of soup.",
		StartDate:   now.Add(-24 * time.Hour),
		EndDate:     now.Add(24 * time.Hour),
	}

	apiClient := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/challenges/ch1", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Stew week", r.FormValue("title"))

		// Unchanged fields and the start date never travel on edit.
		for _, absent := range []string{"theme", "description", "startDate", "endDate"} {
			_, ok := r.MultipartForm.Value[absent]
			assert.False(t, ok, "field %q should be omitted", absent)
		}

		respondJSON(t, w, &api.Challenge{ID: "ch1", Title: "Stew week"})
	}))

	form := challenges.NewEditForm(existing)
	form.Title = "Stew week"

	challenge, err := form.Submit(context.Background(), apiClient, now)
	require.NoError(t, err)
	assert.Equal(t, "Stew week", challenge.Title)
	assert.Equal(t, challenges.PhaseUpdated, form.Phase())
}

func TestFormSubmitRejectedAllowsResubmit(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	failNext := true
	apiClient := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if failNext {
			failNext = false
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		respondJSON(t, w, &api.Challenge{ID: "ch1"})
	}))

	form := challenges.NewCreateForm()
	form.Title, form.Theme, form.Description = "Soup week", "Soups", "Two weeks of soup."
	require.NoError(t, form.SetStartDate(now))
	form.EndDate = now.Add(24 * time.Hour)

	_, err := form.Submit(context.Background(), apiClient, now)
	require.ErrorIs(t, err, api.ErrRequestFailed)
	assert.Equal(t, challenges.PhaseRejected, form.Phase())
	require.ErrorIs(t, form.Err(), api.ErrRequestFailed)

	// The same form can be corrected and submitted again.
	_, err = form.Submit(context.Background(), apiClient, now)
	require.NoError(t, err)
	assert.Equal(t, challenges.PhaseCreated, form.Phase())
}

func TestFormSubmitValidationNeverReachesService(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	apiClient := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("invalid form must not be submitted")
		w.WriteHeader(http.StatusTeapot)
	}))

	form := challenges.NewCreateForm()

	_, err := form.Submit(context.Background(), apiClient, now)
	require.ErrorIs(t, err, challenges.ErrMissingFields)
	assert.Equal(t, challenges.PhaseDraft, form.Phase())
}
