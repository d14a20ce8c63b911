package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/gorm"
)

const msgGearMismatch = "some equipment not found or unauthorized"

// normalizeCategoryName trims name and checks it is 1..CategoryNameMaxLength characters
func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidation(apperrors.ValidationRequired, "category name is required")
	}
	if utf8.RuneCountInString(name) > model.CategoryNameMaxLength {
		return "", apperrors.NewValidation(apperrors.ValidationTooLong, "category name must be at most 20 characters")
	}
	return name, nil
}

// uniqueIDs drops blanks and repeats, keeping first-seen order
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// gearIDSet de-duplicates an equipment id list; a blank id never matches
// any gear, so it fails the set the same way an unknown id does
func gearIDSet(ids []string) ([]string, error) {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, apperrors.NewValidation(apperrors.GearSetMismatch, msgGearMismatch)
		}
	}
	return uniqueIDs(ids), nil
}

// loadOwnedCategory fetches a category and checks that userID owns it
func loadOwnedCategory(repo repository.CategoryRepository, userID, categoryID string) (*model.Category, error) {
	category, err := repo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category not found", map[string]interface{}{
				"category_id": categoryID,
				"user_id":     userID,
			})
			return nil, apperrors.NewNotFound(apperrors.CategoryNotFound, "category not found")
		}
		return nil, err
	}

	if category.OwnerID != userID {
		logger.Warn("Category access denied", map[string]interface{}{
			"category_id": categoryID,
			"owner_id":    category.OwnerID,
			"user_id":     userID,
		})
		return nil, apperrors.NewUnauthorized(apperrors.AuthzOwnerOnly, "you do not own this category")
	}
	return category, nil
}

func loadOwnedGear(repo repository.GearRepository, userID, gearID string) (*model.Gear, error) {
	gear, err := repo.FindByID(gearID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(apperrors.GearNotFound, "equipment not found")
		}
		return nil, err
	}
	if gear.OwnerID != userID {
		logger.Warn("Gear access denied", map[string]interface{}{
			"gear_id": gearID,
			"user_id": userID,
		})
		return nil, apperrors.NewUnauthorized(apperrors.AuthzOwnerOnly, "you do not own this equipment")
	}
	return gear, nil
}

func loadOwnedTrip(repo repository.TripRepository, userID, tripID string) (*model.Trip, error) {
	trip, err := repo.FindByID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(apperrors.TripNotFound, "trip not found")
		}
		return nil, err
	}
	if trip.OwnerID != userID {
		logger.Warn("Trip access denied", map[string]interface{}{
			"trip_id": tripID,
			"user_id": userID,
		})
		return nil, apperrors.NewUnauthorized(apperrors.AuthzOwnerOnly, "you do not own this trip")
	}
	return trip, nil
}

// requireOwnedGear checks that every id in ids names gear owned by userID.
// ids must already be de-duplicated.
func requireOwnedGear(repo repository.GearRepository, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	owned, err := repo.FindOwned(userID, ids)
	if err != nil {
		return err
	}
	if len(owned) != len(ids) {
		logger.Warn("Equipment set mismatch", map[string]interface{}{
			"user_id":   userID,
			"requested": len(ids),
			"owned":     len(owned),
		})
		return apperrors.NewValidation(apperrors.GearSetMismatch, msgGearMismatch)
	}
	return nil
}

// conflictOnDuplicate turns a unique index violation into a ConflictError
func conflictOnDuplicate(err error, code, message string) error {
	if apperrors.IsDuplicateKey(err) {
		return apperrors.NewConflict(code, message)
	}
	return err
}
