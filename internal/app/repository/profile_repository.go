package repository

import (
	"time"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	FindByID(id string) (*model.Profile, error)
	FindByUsername(username string) (*model.Profile, error)
	UsernameExists(username, excludeID string) (bool, error)
	Update(profile *model.Profile) error
	FindAll() ([]model.Profile, error)
	UpdateStats(id string, stats ProfileStats) error
}

// ProfileStats is the denormalised summary kept on each profile
type ProfileStats struct {
	GearCount    int64
	TripCount    int64
	TotalWeightG float64
	UpdatedAt    time.Time
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	logger.Debug("Creating profile in database", map[string]interface{}{
		"profile_id": profile.ID,
		"username":   profile.Username,
	})

	if err := r.db.Create(profile).Error; err != nil {
		logger.Error("Failed to create profile in database", err, map[string]interface{}{
			"profile_id": profile.ID,
			"username":   profile.Username,
		})
		return err
	}
	return nil
}

func (r *profileRepository) FindByID(id string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByUsername(username string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) UsernameExists(username, excludeID string) (bool, error) {
	query := r.db.Model(&model.Profile{}).Where("username = ?", username)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *profileRepository) Update(profile *model.Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) FindAll() ([]model.Profile, error) {
	var profiles []model.Profile
	if err := r.db.Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) UpdateStats(id string, stats ProfileStats) error {
	return r.db.Model(&model.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"gear_count":       stats.GearCount,
			"trip_count":       stats.TripCount,
			"total_weight_g":   stats.TotalWeightG,
			"stats_updated_at": stats.UpdatedAt,
		}).Error
}
