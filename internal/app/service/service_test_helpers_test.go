package service

import (
	"sync"
	"testing"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	"github.com/outdoortrails/trails-hub-backend/internal/db"
	"github.com/outdoortrails/trails-hub-backend/internal/validation"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type publishedEvent struct {
	UserID  string
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(userID, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{UserID: userID, Type: eventType, Payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db           *gorm.DB
	categoryRepo repository.CategoryRepository
	gearRepo     repository.GearRepository
	tripRepo     repository.TripRepository
	profileRepo  repository.ProfileRepository
	events       *recordingPublisher
	categories   CategoryService
	gear         GearService
	trips        TripService
}

func setupServiceTest(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:           testDB,
		categoryRepo: repository.NewCategoryRepository(testDB),
		gearRepo:     repository.NewGearRepository(testDB),
		tripRepo:     repository.NewTripRepository(testDB),
		profileRepo:  repository.NewProfileRepository(testDB),
		events:       &recordingPublisher{},
	}
	v := validation.New()
	env.categories = NewCategoryService(testDB, env.categoryRepo, env.gearRepo, env.events)
	env.gear = NewGearService(testDB, env.gearRepo, env.categoryRepo, v, env.events)
	env.trips = NewTripService(testDB, env.tripRepo, env.gearRepo, v, env.events)
	return env
}

func (env *testEnv) createCategory(t *testing.T, ownerID, name string) *model.Category {
	category := &model.Category{OwnerID: ownerID, Name: name}
	require.NoError(t, env.categoryRepo.Create(category))
	return category
}

func (env *testEnv) createGear(t *testing.T, ownerID, name, category string) *model.Gear {
	gear := &model.Gear{OwnerID: ownerID, Name: name, Category: category}
	require.NoError(t, env.gearRepo.Create(gear))
	return gear
}

func (env *testEnv) reloadCategory(t *testing.T, id string) *model.Category {
	category, err := env.categoryRepo.FindByID(id)
	require.NoError(t, err)
	return category
}

func (env *testEnv) reloadGear(t *testing.T, id string) *model.Gear {
	gear, err := env.gearRepo.FindByID(id)
	require.NoError(t, err)
	return gear
}

func (env *testEnv) gearExists(t *testing.T, id string) bool {
	var count int64
	require.NoError(t, env.db.Model(&model.Gear{}).Where("id = ?", id).Count(&count).Error)
	return count > 0
}

func (env *testEnv) categoryExists(t *testing.T, id string) bool {
	var count int64
	require.NoError(t, env.db.Model(&model.Category{}).Where("id = ?", id).Count(&count).Error)
	return count > 0
}
