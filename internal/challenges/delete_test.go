package challenges_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/ladleapp/ladle/internal/challenges"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFlowRequiresRequestBeforeConfirm(t *testing.T) {
	t.Parallel()

	apiClient := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request should reach the service without confirmation")
		w.WriteHeader(http.StatusTeapot)
	}))

	flow := challenges.NewDeleteFlow("ch1", "u1")

	err := flow.Confirm(context.Background(), apiClient)
	require.ErrorIs(t, err, challenges.ErrDeleteNotRequested)
}

func TestDeleteFlowCancelAborts(t *testing.T) {
	t.Parallel()

	apiClient := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("a cancelled flow must never reach the service")
		w.WriteHeader(http.StatusTeapot)
	}))

	flow := challenges.NewDeleteFlow("ch1", "u1")
	flow.Request()
	require.True(t, flow.Pending())

	flow.Cancel()
	assert.False(t, flow.Pending())

	err := flow.Confirm(context.Background(), apiClient)
	require.ErrorIs(t, err, challenges.ErrDeleteNotRequested)
}

func TestDeleteFlowConfirmCommits(t *testing.T) {
	t.Parallel()

	deleted := false
	apiClient := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/challenges/ch1", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("requesterId"))
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	}))

	flow := challenges.NewDeleteFlow("ch1", "u1")
	flow.Request()

	require.NoError(t, flow.Confirm(context.Background(), apiClient))
	assert.True(t, deleted)
	assert.False(t, flow.Pending())
}
