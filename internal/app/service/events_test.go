package service

import (
	"context"
	"testing"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileCacheInvalidator_WritesDropCachedPublicProfile(t *testing.T) {
	env, profiles, profileCache := setupProfileService(t)
	publisher := NewProfileCacheInvalidator(env.events, env.profileRepo, profileCache)
	categories := NewCategoryService(env.db, env.categoryRepo, env.gearRepo, publisher)
	gear := NewGearService(env.db, env.gearRepo, env.categoryRepo, validation.New(), publisher)
	trips := NewTripService(env.db, env.tripRepo, env.gearRepo, validation.New(), publisher)

	require.NoError(t, env.profileRepo.Create(&model.Profile{ID: "U1", Username: "jane"}))
	summer := env.createCategory(t, "U1", "Summer")

	warm := func() {
		_, err := profiles.GetPublicProfile(context.Background(), "jane")
		require.NoError(t, err)
		require.Contains(t, profileCache.entries, "jane")
	}

	warm()
	tent, err := gear.CreateGear("U1", GearInput{Name: "Tent", Category: "Summer"})
	require.NoError(t, err)
	assert.NotContains(t, profileCache.entries, "jane")

	public, err := profiles.GetPublicProfile(context.Background(), "jane")
	require.NoError(t, err)
	require.Len(t, public.Gear, 1)
	assert.Equal(t, "Summer", public.Gear[0].Category)

	_, err = categories.RenameCategoryWithGear("U1", summer.ID, "Hiking", []string{tent.ID})
	require.NoError(t, err)
	assert.NotContains(t, profileCache.entries, "jane")

	public, err = profiles.GetPublicProfile(context.Background(), "jane")
	require.NoError(t, err)
	require.Len(t, public.Gear, 1)
	assert.Equal(t, "Hiking", public.Gear[0].Category)

	warm()
	_, err = trips.CreateTrip("U1", TripInput{Title: "Jade Mountain"})
	require.NoError(t, err)
	assert.NotContains(t, profileCache.entries, "jane")

	warm()
	_, err = categories.DeleteCategoryWithGear("U1", summer.ID, []string{tent.ID})
	require.NoError(t, err)
	assert.NotContains(t, profileCache.entries, "jane")

	assert.Equal(t, []string{EventGearChanged, EventCategoryRenamed, EventTripChanged, EventCategoryDeleted}, env.events.types())
}

func TestProfileCacheInvalidator_FailedWriteKeepsCache(t *testing.T) {
	env, profiles, profileCache := setupProfileService(t)
	publisher := NewProfileCacheInvalidator(env.events, env.profileRepo, profileCache)
	categories := NewCategoryService(env.db, env.categoryRepo, env.gearRepo, publisher)

	require.NoError(t, env.profileRepo.Create(&model.Profile{ID: "U1", Username: "jane"}))
	summer := env.createCategory(t, "U1", "Summer")
	_, err := profiles.GetPublicProfile(context.Background(), "jane")
	require.NoError(t, err)

	_, err = categories.RenameCategoryWithGear("U1", summer.ID, "Hiking", []string{"E-does-not-exist"})
	require.Error(t, err)

	assert.Contains(t, profileCache.entries, "jane")
	assert.Empty(t, profileCache.invalidated)
}

func TestProfileCacheInvalidator_UserWithoutProfileStillPublishes(t *testing.T) {
	env, _, profileCache := setupProfileService(t)
	publisher := NewProfileCacheInvalidator(env.events, env.profileRepo, profileCache)

	publisher.Publish("nobody", EventGearDeleted, nil)

	assert.Empty(t, profileCache.invalidated)
	assert.Equal(t, []string{EventGearDeleted}, env.events.types())
}
