package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	"github.com/outdoortrails/trails-hub-backend/internal/cache"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/internal/validation"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	usernameMinLength = 3
	usernameBaseMax   = 24
	msgUsernameTaken  = "this username is already taken"
)

var usernameInvalidChars = regexp.MustCompile(`[^a-z0-9_-]+`)

type ProfileInput struct {
	Username    string `json:"username" validate:"required,min=3,max=30,username"`
	DisplayName string `json:"display_name" validate:"max=50"`
	Bio         string `json:"bio" validate:"max=500"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
	Location    string `json:"location" validate:"max=100"`
	Website     string `json:"website" validate:"omitempty,url"`
}

type ProfileService interface {
	// GetOrCreateMe returns the caller's profile, creating it on first sign-in
	GetOrCreateMe(userID, email string) (*model.Profile, error)
	UpdateMe(ctx context.Context, userID string, input ProfileInput) (*model.Profile, error)
	GetPublicProfile(ctx context.Context, username string) (*model.PublicProfile, error)
	// RefreshStats recomputes the denormalised counters of every profile
	RefreshStats(ctx context.Context) (int, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	gearRepo    repository.GearRepository
	tripRepo    repository.TripRepository
	cache       cache.ProfileCache
	validator   *validation.Validator
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	gearRepo repository.GearRepository,
	tripRepo repository.TripRepository,
	profileCache cache.ProfileCache,
	validator *validation.Validator,
) ProfileService {
	if profileCache == nil {
		profileCache = cache.NoopProfileCache{}
	}
	return &profileService{
		profileRepo: profileRepo,
		gearRepo:    gearRepo,
		tripRepo:    tripRepo,
		cache:       profileCache,
		validator:   validator,
	}
}

func (s *profileService) GetOrCreateMe(userID, email string) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username, err := s.availableUsername(usernameFromEmail(email))
	if err != nil {
		return nil, err
	}

	profile = &model.Profile{
		ID:          userID,
		Username:    username,
		Email:       email,
		DisplayName: username,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		if apperrors.IsDuplicateKey(err) {
			// lost a race with a concurrent first request
			if existing, findErr := s.profileRepo.FindByID(userID); findErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	logger.Info("Profile created", map[string]interface{}{
		"user_id":  userID,
		"username": username,
	})
	return profile, nil
}

// usernameFromEmail derives a valid username candidate from the local part of email
func usernameFromEmail(email string) string {
	local := strings.ToLower(strings.TrimSpace(email))
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	local = usernameInvalidChars.ReplaceAllString(local, "_")
	local = strings.Trim(local, "_-")

	if len(local) > usernameBaseMax {
		local = local[:usernameBaseMax]
	}
	if len(local) < usernameMinLength {
		local = "hiker" + local
	}
	return local
}

func (s *profileService) availableUsername(base string) (string, error) {
	candidate := base
	for n := 2; n < 1000; n++ {
		taken, err := s.profileRepo.UsernameExists(candidate, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", apperrors.NewConflict(apperrors.ProfileUsernameExists, msgUsernameTaken)
}

func (s *profileService) UpdateMe(ctx context.Context, userID string, input ProfileInput) (*model.Profile, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Bio = strings.TrimSpace(input.Bio)
	input.AvatarURL = strings.TrimSpace(input.AvatarURL)
	input.Location = strings.TrimSpace(input.Location)
	input.Website = strings.TrimSpace(input.Website)

	if err := s.validator.Validate(&input); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(apperrors.ProfileNotFound, "profile not found")
		}
		return nil, err
	}

	if input.Username != profile.Username {
		taken, err := s.profileRepo.UsernameExists(input.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewConflict(apperrors.ProfileUsernameExists, msgUsernameTaken)
		}
	}

	previousUsername := profile.Username
	profile.Username = input.Username
	profile.DisplayName = input.DisplayName
	profile.Bio = input.Bio
	profile.AvatarURL = input.AvatarURL
	profile.Location = input.Location
	profile.Website = input.Website

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, conflictOnDuplicate(err, apperrors.ProfileUsernameExists, msgUsernameTaken)
	}

	if err := s.cache.Invalidate(ctx, previousUsername, profile.Username); err != nil {
		logger.Warn("Failed to invalidate profile cache", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id":  userID,
		"username": profile.Username,
	})
	return profile, nil
}

func (s *profileService) GetPublicProfile(ctx context.Context, username string) (*model.PublicProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	cached, hit, err := s.cache.Get(ctx, username)
	if err != nil {
		logger.Warn("Profile cache read failed", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
	}
	if hit {
		return cached, nil
	}

	profile, err := s.profileRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(apperrors.ProfileNotFound, "profile not found")
		}
		return nil, err
	}

	gear, err := s.gearRepo.FindWithFilter(repository.GearFilter{OwnerID: profile.ID})
	if err != nil {
		return nil, err
	}
	trips, err := s.tripRepo.FindByOwner(profile.ID)
	if err != nil {
		return nil, err
	}

	public := &model.PublicProfile{
		Username:     profile.Username,
		DisplayName:  profile.DisplayName,
		Bio:          profile.Bio,
		AvatarURL:    profile.AvatarURL,
		Location:     profile.Location,
		Website:      profile.Website,
		GearCount:    profile.GearCount,
		TripCount:    profile.TripCount,
		TotalWeightG: profile.TotalWeightG,
		Gear:         gear,
		Trips:        trips,
	}

	if err := s.cache.Set(ctx, username, public); err != nil {
		logger.Warn("Profile cache write failed", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
	}
	return public, nil
}

func (s *profileService) RefreshStats(ctx context.Context) (int, error) {
	profiles, err := s.profileRepo.FindAll()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	refreshed := 0
	for _, profile := range profiles {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}

		gear, err := s.gearRepo.FindWithFilter(repository.GearFilter{OwnerID: profile.ID})
		if err != nil {
			return refreshed, err
		}
		tripCount, err := s.tripRepo.CountByOwner(profile.ID)
		if err != nil {
			return refreshed, err
		}

		var totalWeight float64
		for i := range gear {
			totalWeight += gear[i].WeightG()
		}

		err = s.profileRepo.UpdateStats(profile.ID, repository.ProfileStats{
			GearCount:    int64(len(gear)),
			TripCount:    tripCount,
			TotalWeightG: totalWeight,
			UpdatedAt:    now,
		})
		if err != nil {
			return refreshed, err
		}
		if err := s.cache.Invalidate(ctx, profile.Username); err != nil {
			logger.Warn("Failed to invalidate profile cache", map[string]interface{}{
				"username": profile.Username,
				"error":    err.Error(),
			})
		}
		refreshed++
	}

	logger.Info("Profile stats refreshed", map[string]interface{}{
		"profiles": refreshed,
	})
	return refreshed, nil
}
