package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserRepo() UserRepository {
	return NewUserRepository(kvstore.NewMemoryStore(), NewKeyMutex(), zerolog.Nop())
}

func TestUserRepositoryProfile(t *testing.T) {
	ctx := context.Background()
	repo := newTestUserRepo()

	missing, err := repo.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.SaveProfile(ctx, &model.UserProfile{UserID: "user-1", Name: "Asha"}))

	got, err := repo.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Asha", got.Name)
}

func TestUserRepositoryPreferencesZeroValue(t *testing.T) {
	ctx := context.Background()
	repo := newTestUserRepo()

	prefs, err := repo.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, prefs, "missing preferences come back zero-valued, never nil")
	assert.Empty(t, prefs.Interests)

	require.NoError(t, repo.SavePreferences(ctx, "user-1", &model.Preferences{
		Interests: []string{"electronics"},
		Location:  "Pune",
	}))

	prefs, err = repo.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics"}, prefs.Interests)
	assert.Equal(t, "Pune", prefs.Location)
}

func TestUserRepositoryViewHistoryCapped(t *testing.T) {
	ctx := context.Background()
	repo := newTestUserRepo()

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxViewHistory+10; i++ {
		productID := fmt.Sprintf("p-%d", i)
		require.NoError(t, repo.RecordView(ctx, "user-1", productID, base.Add(time.Duration(i)*time.Minute)))
	}

	views, err := repo.GetViews(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, views, maxViewHistory)

	// Newest first; the oldest entries fell off.
	assert.Equal(t, fmt.Sprintf("p-%d", maxViewHistory+9), views[0].ProductID)
	assert.Equal(t, "p-10", views[maxViewHistory-1].ProductID)
}
