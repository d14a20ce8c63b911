package repository

import (
	"time"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	// WithTx returns a repository bound to tx; every call runs inside that transaction
	WithTx(tx *gorm.DB) CategoryRepository
	Create(category *model.Category) error
	FindByID(id string) (*model.Category, error)
	FindByOwner(ownerID string) ([]model.Category, error)
	ListSummaries(ownerID string) ([]model.CategorySummary, error)
	NameTaken(ownerID, name, excludeID string) (bool, error)
	MaxPosition(ownerID string) (int, error)
	CountOwned(ownerID string, ids []string) (int64, error)
	UpdateName(id, name string) error
	UpdatePosition(id string, position int) error
	Delete(id string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"owner_id": category.OwnerID,
		"name":     category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"owner_id": category.OwnerID,
			"name":     category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindByID(id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByOwner(ownerID string) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Where("owner_id = ?", ownerID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to find categories by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return categories, nil
}

// ListSummaries returns the owner's categories with the number of gear rows
// whose category column holds each name
func (r *categoryRepository) ListSummaries(ownerID string) ([]model.CategorySummary, error) {
	var summaries []model.CategorySummary
	err := r.db.Model(&model.Category{}).
		Select("categories.*, COUNT(gear.id) AS gear_count").
		Joins("LEFT JOIN gear ON gear.owner_id = categories.owner_id AND gear.category = categories.name").
		Where("categories.owner_id = ?", ownerID).
		Group("categories.id").
		Order("categories.position ASC").
		Order("categories.created_at ASC").
		Scan(&summaries).Error
	if err != nil {
		logger.Error("Failed to list category summaries", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}

	logger.Debug("Category summaries listed", map[string]interface{}{
		"owner_id": ownerID,
		"count":    len(summaries),
	})
	return summaries, nil
}

// NameTaken reports whether another category of the owner already uses name.
// excludeID may be empty.
func (r *categoryRepository) NameTaken(ownerID, name, excludeID string) (bool, error) {
	query := r.db.Model(&model.Category{}).Where("owner_id = ? AND name = ?", ownerID, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MaxPosition returns the highest position in use, or -1 when the owner has no categories
func (r *categoryRepository) MaxPosition(ownerID string) (int, error) {
	var result struct {
		Max *int
	}
	err := r.db.Model(&model.Category{}).
		Select("MAX(position) AS max").
		Where("owner_id = ?", ownerID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}
	if result.Max == nil {
		return -1, nil
	}
	return *result.Max, nil
}

func (r *categoryRepository) CountOwned(ownerID string, ids []string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Count(&count).Error
	return count, err
}

func (r *categoryRepository) UpdateName(id, name string) error {
	logger.Debug("Renaming category in database", map[string]interface{}{
		"category_id": id,
		"name":        name,
	})

	return r.db.Model(&model.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"updated_at": time.Now(),
		}).Error
}

func (r *categoryRepository) UpdatePosition(id string, position int) error {
	return r.db.Model(&model.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"position":   position,
			"updated_at": time.Now(),
		}).Error
}

func (r *categoryRepository) Delete(id string) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	if err := r.db.Where("id = ?", id).Delete(&model.Category{}).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}
