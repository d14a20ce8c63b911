package repository

import (
	"time"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripRepository interface {
	WithTx(tx *gorm.DB) TripRepository
	Create(trip *model.Trip) error
	FindByID(id string) (*model.Trip, error)
	FindBySlug(slug string) (*model.Trip, error)
	FindByOwner(ownerID string) ([]model.Trip, error)
	SlugExists(slug string) (bool, error)
	Update(trip *model.Trip) error
	Delete(id string) error
	CountByOwner(ownerID string) (int64, error)

	// ReplaceGear swaps the trip's linked gear for gearIDs
	ReplaceGear(tripID string, gearIDs []string) error
	FindGear(tripID string) ([]model.Gear, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) WithTx(tx *gorm.DB) TripRepository {
	return &tripRepository{db: tx}
}

func (r *tripRepository) Create(trip *model.Trip) error {
	logger.Debug("Creating trip in database", map[string]interface{}{
		"owner_id": trip.OwnerID,
		"title":    trip.Title,
		"slug":     trip.Slug,
	})

	if err := r.db.Create(trip).Error; err != nil {
		logger.Error("Failed to create trip in database", err, map[string]interface{}{
			"owner_id": trip.OwnerID,
			"slug":     trip.Slug,
		})
		return err
	}
	return nil
}

func (r *tripRepository) FindByID(id string) (*model.Trip, error) {
	var trip model.Trip
	if err := r.db.Where("id = ?", id).First(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) FindBySlug(slug string) (*model.Trip, error) {
	var trip model.Trip
	if err := r.db.Where("slug = ?", slug).First(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) FindByOwner(ownerID string) ([]model.Trip, error) {
	var trips []model.Trip
	err := r.db.Where("owner_id = ?", ownerID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&trips).Error
	if err != nil {
		logger.Error("Failed to find trips by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Trip{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tripRepository) Update(trip *model.Trip) error {
	logger.Debug("Updating trip in database", map[string]interface{}{
		"trip_id": trip.ID,
	})
	return r.db.Save(trip).Error
}

func (r *tripRepository) Delete(id string) error {
	logger.Debug("Deleting trip from database", map[string]interface{}{
		"trip_id": id,
	})
	return r.db.Where("id = ?", id).Delete(&model.Trip{}).Error
}

func (r *tripRepository) CountByOwner(ownerID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Trip{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *tripRepository) ReplaceGear(tripID string, gearIDs []string) error {
	if err := r.db.Where("trip_id = ?", tripID).Delete(&model.TripGear{}).Error; err != nil {
		return err
	}
	if len(gearIDs) == 0 {
		return nil
	}

	now := time.Now()
	links := make([]model.TripGear, 0, len(gearIDs))
	for _, gearID := range gearIDs {
		links = append(links, model.TripGear{TripID: tripID, GearID: gearID, CreatedAt: now})
	}

	if err := r.db.Omit(clause.Associations).Create(&links).Error; err != nil {
		logger.Error("Failed to link gear to trip", err, map[string]interface{}{
			"trip_id": tripID,
			"count":   len(gearIDs),
		})
		return err
	}
	return nil
}

func (r *tripRepository) FindGear(tripID string) ([]model.Gear, error) {
	var gear []model.Gear
	err := r.db.Model(&model.Gear{}).
		Joins("JOIN trip_gear ON trip_gear.gear_id = gear.id").
		Where("trip_gear.trip_id = ?", tripID).
		Order("gear.category ASC").
		Order("gear.name ASC").
		Find(&gear).Error
	return gear, err
}
