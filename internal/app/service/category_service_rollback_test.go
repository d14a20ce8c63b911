package service

import (
	"errors"
	"testing"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errWriteFailed = errors.New("write failed")

// failingGearRepo performs the real bulk write and then reports failure,
// so the transaction has something to undo
type failingGearRepo struct {
	repository.GearRepository
}

func (r failingGearRepo) WithTx(tx *gorm.DB) repository.GearRepository {
	return failingGearRepo{GearRepository: r.GearRepository.WithTx(tx)}
}

func (r failingGearRepo) UpdateCategory(ownerID string, ids []string, category string) (int64, error) {
	if _, err := r.GearRepository.UpdateCategory(ownerID, ids, category); err != nil {
		return 0, err
	}
	return 0, errWriteFailed
}

func (r failingGearRepo) DeleteOwned(ownerID string, ids []string) (int64, error) {
	if _, err := r.GearRepository.DeleteOwned(ownerID, ids); err != nil {
		return 0, err
	}
	return 0, errWriteFailed
}

// racingCategoryRepo never sees a taken name, as if a concurrent request
// committed the same name after the check
type racingCategoryRepo struct {
	repository.CategoryRepository
}

func (r racingCategoryRepo) WithTx(tx *gorm.DB) repository.CategoryRepository {
	return racingCategoryRepo{CategoryRepository: r.CategoryRepository.WithTx(tx)}
}

func (r racingCategoryRepo) NameTaken(string, string, string) (bool, error) {
	return false, nil
}

func TestRenameCategoryWithGear_GearWriteFailureRollsBackRename(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCategoryService(env.db, env.categoryRepo, failingGearRepo{GearRepository: env.gearRepo}, env.events)
	c1 := env.createCategory(t, "U1", "Summer")
	e1 := env.createGear(t, "U1", "Tent", "Summer")

	_, err := svc.RenameCategoryWithGear("U1", c1.ID, "Hiking", []string{e1.ID})
	require.ErrorIs(t, err, errWriteFailed)

	assert.Equal(t, "Summer", env.reloadCategory(t, c1.ID).Name)
	assert.Equal(t, "Summer", env.reloadGear(t, e1.ID).Category)
	assert.Empty(t, env.events.types())
}

func TestDeleteCategoryWithGear_GearWriteFailureRollsBackDelete(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCategoryService(env.db, env.categoryRepo, failingGearRepo{GearRepository: env.gearRepo}, env.events)
	c1 := env.createCategory(t, "U1", "Summer")
	e1 := env.createGear(t, "U1", "Tent", "Summer")

	trip := &model.Trip{OwnerID: "U1", Title: "Jade Mountain", Slug: "jade-mountain-11111111"}
	require.NoError(t, env.tripRepo.Create(trip))
	require.NoError(t, env.tripRepo.ReplaceGear(trip.ID, []string{e1.ID}))

	_, err := svc.DeleteCategoryWithGear("U1", c1.ID, []string{e1.ID})
	require.ErrorIs(t, err, errWriteFailed)

	assert.True(t, env.categoryExists(t, c1.ID))
	assert.True(t, env.gearExists(t, e1.ID))

	var links []model.TripGear
	require.NoError(t, env.db.Where("trip_id = ?", trip.ID).Find(&links).Error)
	assert.Len(t, links, 1)
	assert.Empty(t, env.events.types())
}

func TestRenameCategoryWithGear_ConcurrentDuplicateNameIsConflict(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCategoryService(env.db, racingCategoryRepo{CategoryRepository: env.categoryRepo}, env.gearRepo, env.events)
	c1 := env.createCategory(t, "U1", "Summer")
	env.createCategory(t, "U1", "Hiking")
	e1 := env.createGear(t, "U1", "Tent", "Summer")

	_, err := svc.RenameCategoryWithGear("U1", c1.ID, "Hiking", []string{e1.ID})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	de, ok := apperrors.AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CategoryNameExists, de.Code)

	assert.Equal(t, "Summer", env.reloadCategory(t, c1.ID).Name)
	assert.Equal(t, "Summer", env.reloadGear(t, e1.ID).Category)
	assert.Empty(t, env.events.types())
}
