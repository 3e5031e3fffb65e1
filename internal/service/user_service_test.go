package service

import (
	"context"
	"testing"
	"time"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"
	"bidkart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (UserService, repository.UserRepository, *fakeClock) {
	t.Helper()
	repo := repository.NewUserRepository(kvstore.NewMemoryStore(), repository.NewKeyMutex(), zerolog.Nop())
	svc := NewUserService(repo, zerolog.Nop())
	clock := &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc.(*userService).now = clock.now
	return svc, repo, clock
}

func TestSaveAndGetProfile(t *testing.T) {
	svc, _, clock := newUserFixture(t)
	ctx := context.Background()

	saved, err := svc.SaveProfile(ctx, "user-1", &model.UserProfile{Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", saved.UserID, "path id wins over any id in the body")
	assert.Equal(t, clock.t, saved.UpdatedAt)

	got, err := svc.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)

	_, err = svc.GetProfile(ctx, "absent")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestSaveAndGetPreferences(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	prefs, err := svc.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, prefs.Interests)

	saved, err := svc.SavePreferences(ctx, "user-1", &model.Preferences{Interests: []string{"gifts"}})
	require.NoError(t, err)
	assert.False(t, saved.SavedAt.IsZero())

	prefs, err = svc.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"gifts"}, prefs.Interests)
}

func TestTrackView(t *testing.T) {
	svc, repo, _ := newUserFixture(t)
	ctx := context.Background()

	err := svc.TrackView(ctx, "", "p-1")
	require.Error(t, err)
	err = svc.TrackView(ctx, "user-1", "")
	require.Error(t, err)

	require.NoError(t, svc.TrackView(ctx, "user-1", "p-1"))
	require.NoError(t, svc.TrackView(ctx, "user-1", "p-2"))

	views, err := repo.GetViews(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "p-2", views[0].ProductID, "newest first")
}
