package service

import (
	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/gorm"
)

const msgCategoryNameExists = "a category with this name already exists"

// DeleteCategoryResult describes what a delete-with-equipment removed
type DeleteCategoryResult struct {
	DeletedCategoryID string `json:"deleted_category_id"`
	DeletedGearCount  int64  `json:"deleted_gear_count"`
}

type CategoryService interface {
	CreateCategory(userID, name string) (*model.Category, error)
	ListCategories(userID string) ([]model.CategorySummary, error)
	GetCategory(userID, categoryID string) (*model.Category, error)
	ReorderCategories(userID string, categoryIDs []string) error
	DeleteCategory(userID, categoryID string) error

	// RenameCategoryWithGear renames the category and rewrites the category
	// name on every listed gear row, all or nothing
	RenameCategoryWithGear(userID, categoryID, newName string, gearIDs []string) (*model.Category, error)
	// DeleteCategoryWithGear deletes the category and every listed gear row, all or nothing
	DeleteCategoryWithGear(userID, categoryID string, gearIDs []string) (*DeleteCategoryResult, error)
}

type categoryService struct {
	db           *gorm.DB
	categoryRepo repository.CategoryRepository
	gearRepo     repository.GearRepository
	events       EventPublisher
}

func NewCategoryService(
	db *gorm.DB,
	categoryRepo repository.CategoryRepository,
	gearRepo repository.GearRepository,
	events EventPublisher,
) CategoryService {
	return &categoryService{
		db:           db,
		categoryRepo: categoryRepo,
		gearRepo:     gearRepo,
		events:       publisherOrNoop(events),
	}
}

func (s *categoryService) CreateCategory(userID, name string) (*model.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	logger.Info("Creating category", map[string]interface{}{
		"user_id": userID,
		"name":    name,
	})

	// advisory; the unique index decides under concurrency
	taken, err := s.categoryRepo.NameTaken(userID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict(apperrors.CategoryNameExists, msgCategoryNameExists)
	}

	maxPosition, err := s.categoryRepo.MaxPosition(userID)
	if err != nil {
		return nil, err
	}

	category := &model.Category{
		OwnerID:  userID,
		Name:     name,
		Position: maxPosition + 1,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, conflictOnDuplicate(err, apperrors.CategoryNameExists, msgCategoryNameExists)
	}

	s.events.Publish(userID, EventCategoryCreated, category)
	return category, nil
}

func (s *categoryService) ListCategories(userID string) ([]model.CategorySummary, error) {
	summaries, err := s.categoryRepo.ListSummaries(userID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []model.CategorySummary{}
	}
	return summaries, nil
}

func (s *categoryService) GetCategory(userID, categoryID string) (*model.Category, error) {
	return loadOwnedCategory(s.categoryRepo, userID, categoryID)
}

// ReorderCategories stores categoryIDs[i] at position i. Every id must be one
// of the caller's categories.
func (s *categoryService) ReorderCategories(userID string, categoryIDs []string) error {
	ids := uniqueIDs(categoryIDs)
	if len(ids) == 0 {
		return apperrors.NewValidation(apperrors.ValidationRequired, "category ids are required")
	}
	if len(ids) != len(categoryIDs) {
		return apperrors.NewValidation(apperrors.ValidationInvalidInput, "category ids must be distinct")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		categoryRepo := s.categoryRepo.WithTx(tx)

		owned, err := categoryRepo.CountOwned(userID, ids)
		if err != nil {
			return err
		}
		if owned != int64(len(ids)) {
			return apperrors.NewValidation(apperrors.CategoryNotFound, "some categories not found or unauthorized")
		}

		for position, id := range ids {
			if err := categoryRepo.UpdatePosition(id, position); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Category reorder failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}

	s.events.Publish(userID, EventCategoriesOrdered, map[string]interface{}{"category_ids": ids})
	return nil
}

// DeleteCategory removes only the category row; gear filed under its name keeps it
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	if _, err := loadOwnedCategory(s.categoryRepo, userID, categoryID); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(categoryID); err != nil {
		return err
	}

	logger.Info("Category deleted", map[string]interface{}{
		"user_id":     userID,
		"category_id": categoryID,
	})
	s.events.Publish(userID, EventCategoryDeleted, DeleteCategoryResult{DeletedCategoryID: categoryID})
	return nil
}

func (s *categoryService) RenameCategoryWithGear(userID, categoryID, newName string, gearIDs []string) (*model.Category, error) {
	name, err := normalizeCategoryName(newName)
	if err != nil {
		return nil, err
	}
	ids, err := gearIDSet(gearIDs)
	if err != nil {
		return nil, err
	}

	logger.Info("Renaming category with equipment", map[string]interface{}{
		"user_id":     userID,
		"category_id": categoryID,
		"new_name":    name,
		"gear_count":  len(ids),
	})

	var renamed *model.Category
	err = s.db.Transaction(func(tx *gorm.DB) error {
		categoryRepo := s.categoryRepo.WithTx(tx)
		gearRepo := s.gearRepo.WithTx(tx)

		category, err := loadOwnedCategory(categoryRepo, userID, categoryID)
		if err != nil {
			return err
		}

		taken, err := categoryRepo.NameTaken(userID, name, category.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflict(apperrors.CategoryNameExists, msgCategoryNameExists)
		}

		// all checks run before the first write
		if err := requireOwnedGear(gearRepo, userID, ids); err != nil {
			return err
		}

		if err := categoryRepo.UpdateName(category.ID, name); err != nil {
			return conflictOnDuplicate(err, apperrors.CategoryNameExists, msgCategoryNameExists)
		}
		if len(ids) > 0 {
			if _, err := gearRepo.UpdateCategory(userID, ids, name); err != nil {
				return err
			}
		}

		renamed, err = categoryRepo.FindByID(category.ID)
		return err
	})
	if err != nil {
		logger.Warn("Category rename rolled back", map[string]interface{}{
			"user_id":     userID,
			"category_id": categoryID,
			"error":       err.Error(),
		})
		return nil, err
	}

	logger.Info("Category renamed", map[string]interface{}{
		"user_id":     userID,
		"category_id": categoryID,
		"name":        renamed.Name,
	})
	s.events.Publish(userID, EventCategoryRenamed, map[string]interface{}{
		"category": renamed,
		"gear_ids": ids,
	})
	return renamed, nil
}

func (s *categoryService) DeleteCategoryWithGear(userID, categoryID string, gearIDs []string) (*DeleteCategoryResult, error) {
	ids, err := gearIDSet(gearIDs)
	if err != nil {
		return nil, err
	}

	logger.Info("Deleting category with equipment", map[string]interface{}{
		"user_id":     userID,
		"category_id": categoryID,
		"gear_count":  len(ids),
	})

	result := &DeleteCategoryResult{DeletedCategoryID: categoryID}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		categoryRepo := s.categoryRepo.WithTx(tx)
		gearRepo := s.gearRepo.WithTx(tx)

		if _, err := loadOwnedCategory(categoryRepo, userID, categoryID); err != nil {
			return err
		}

		if err := requireOwnedGear(gearRepo, userID, ids); err != nil {
			return err
		}

		if len(ids) > 0 {
			deleted, err := gearRepo.DeleteOwned(userID, ids)
			if err != nil {
				return err
			}
			result.DeletedGearCount = deleted
		}

		return categoryRepo.Delete(categoryID)
	})
	if err != nil {
		logger.Warn("Category delete rolled back", map[string]interface{}{
			"user_id":     userID,
			"category_id": categoryID,
			"error":       err.Error(),
		})
		return nil, err
	}

	logger.Info("Category deleted with equipment", map[string]interface{}{
		"user_id":      userID,
		"category_id":  categoryID,
		"gear_deleted": result.DeletedGearCount,
	})
	s.events.Publish(userID, EventCategoryDeleted, map[string]interface{}{
		"deleted_category_id": categoryID,
		"gear_ids":            ids,
	})
	return result, nil
}
