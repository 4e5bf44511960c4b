package session_test

import (
	"testing"

	"github.com/ladleapp/ladle/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestIdentityPrefersAuthenticatedUser(t *testing.T) {
	t.Parallel()

	store, err := session.Open(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer store.Close()

	id, err := store.Identity("user-42")
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)
}

func TestIdentityPersistsAnonymousID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := session.Open(dir, zaptest.NewLogger(t))
	require.NoError(t, err)

	first, err := store.Identity("")
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	again, err := store.Identity("")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, store.Close())

	// A fresh store on the same directory must return the same id.
	reopened, err := session.Open(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer reopened.Close()

	persisted, err := reopened.Identity("")
	require.NoError(t, err)
	assert.Equal(t, first, persisted)
}

func TestSaveRatingOverwrites(t *testing.T) {
	t.Parallel()

	store, err := session.Open(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveRating("t1", 3))
	require.NoError(t, store.SaveRating("t2", 5))
	require.NoError(t, store.SaveRating("t1", 4))

	ratings, err := store.Ratings()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"t1": 4, "t2": 5}, ratings)
}

func TestResetClearsIdentityAndRatings(t *testing.T) {
	t.Parallel()

	store, err := session.Open(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer store.Close()

	before, err := store.Identity("")
	require.NoError(t, err)
	require.NoError(t, store.SaveRating("t1", 2))

	require.NoError(t, store.Reset())

	after, err := store.Identity("")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	ratings, err := store.Ratings()
	require.NoError(t, err)
	assert.Empty(t, ratings)
}
