package repository

import (
	"time"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GearFilter struct {
	OwnerID  string
	Category *string
}

type GearRepository interface {
	WithTx(tx *gorm.DB) GearRepository
	Create(gear *model.Gear) error
	BulkCreate(gear []model.Gear, batchSize int) error
	FindByID(id string) (*model.Gear, error)
	FindWithFilter(filter GearFilter) ([]model.Gear, error)
	// FindOwned returns the rows among ids that belong to ownerID
	FindOwned(ownerID string, ids []string) ([]model.Gear, error)
	Update(gear *model.Gear) error
	UpdateCategory(ownerID string, ids []string, category string) (int64, error)
	Delete(id string) error
	DeleteOwned(ownerID string, ids []string) (int64, error)
}

type gearRepository struct {
	db *gorm.DB
}

func NewGearRepository(db *gorm.DB) GearRepository {
	return &gearRepository{db: db}
}

func (r *gearRepository) WithTx(tx *gorm.DB) GearRepository {
	return &gearRepository{db: tx}
}

func (r *gearRepository) Create(gear *model.Gear) error {
	logger.Debug("Creating gear in database", map[string]interface{}{
		"owner_id": gear.OwnerID,
		"name":     gear.Name,
		"category": gear.Category,
	})

	if err := r.db.Omit(clause.Associations).Create(gear).Error; err != nil {
		logger.Error("Failed to create gear in database", err, map[string]interface{}{
			"owner_id": gear.OwnerID,
			"name":     gear.Name,
		})
		return err
	}
	return nil
}

func (r *gearRepository) BulkCreate(gear []model.Gear, batchSize int) error {
	if len(gear) == 0 {
		return nil
	}

	logger.Info("Bulk creating gear", map[string]interface{}{
		"count":      len(gear),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(gear, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create gear", err, map[string]interface{}{
			"count": len(gear),
		})
		return err
	}
	return nil
}

func (r *gearRepository) FindByID(id string) (*model.Gear, error) {
	var gear model.Gear
	if err := r.db.Where("id = ?", id).First(&gear).Error; err != nil {
		return nil, err
	}
	return &gear, nil
}

func (r *gearRepository) FindWithFilter(filter GearFilter) ([]model.Gear, error) {
	logger.Debug("Finding gear with filter", map[string]interface{}{
		"owner_id": filter.OwnerID,
		"category": filter.Category,
	})

	query := r.db.Model(&model.Gear{}).Where("owner_id = ?", filter.OwnerID)
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	var gear []model.Gear
	if err := query.Order("category ASC").Order("name ASC").Find(&gear).Error; err != nil {
		logger.Error("Failed to find gear with filter", err, map[string]interface{}{
			"owner_id": filter.OwnerID,
		})
		return nil, err
	}
	return gear, nil
}

func (r *gearRepository) FindOwned(ownerID string, ids []string) ([]model.Gear, error) {
	var gear []model.Gear
	if len(ids) == 0 {
		return gear, nil
	}
	err := r.db.Where("owner_id = ? AND id IN ?", ownerID, ids).Find(&gear).Error
	return gear, err
}

func (r *gearRepository) Update(gear *model.Gear) error {
	logger.Debug("Updating gear in database", map[string]interface{}{
		"gear_id": gear.ID,
		"name":    gear.Name,
	})

	if err := r.db.Omit(clause.Associations).Save(gear).Error; err != nil {
		logger.Error("Failed to update gear in database", err, map[string]interface{}{
			"gear_id": gear.ID,
		})
		return err
	}
	return nil
}

// UpdateCategory rewrites the category name on exactly the given owned rows
func (r *gearRepository) UpdateCategory(ownerID string, ids []string, category string) (int64, error) {
	result := r.db.Model(&model.Gear{}).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Updates(map[string]interface{}{
			"category":   category,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		logger.Error("Failed to update gear category", result.Error, map[string]interface{}{
			"owner_id": ownerID,
			"count":    len(ids),
		})
		return 0, result.Error
	}

	logger.Debug("Gear category updated", map[string]interface{}{
		"owner_id": ownerID,
		"category": category,
		"affected": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *gearRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Gear{}).Error
}

// DeleteOwned deletes the owned rows among ids; trip_gear rows go with them
// through the foreign key cascade
func (r *gearRepository) DeleteOwned(ownerID string, ids []string) (int64, error) {
	result := r.db.Where("owner_id = ? AND id IN ?", ownerID, ids).Delete(&model.Gear{})
	if result.Error != nil {
		logger.Error("Failed to delete gear", result.Error, map[string]interface{}{
			"owner_id": ownerID,
			"count":    len(ids),
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
