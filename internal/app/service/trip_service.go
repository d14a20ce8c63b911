package service

import (
	"errors"
	"strings"
	"time"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/internal/validation"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"github.com/outdoortrails/trails-hub-backend/pkg/util"
	"gorm.io/gorm"
)

const maxSlugAttempts = 5

type TripInput struct {
	Title       string     `json:"title" validate:"required,max=100"`
	Description string     `json:"description" validate:"max=5000"`
	Location    string     `json:"location" validate:"max=100"`
	Duration    string     `json:"duration" validate:"max=50"`
	Date        *time.Time `json:"date"`
	Images      []string   `json:"images" validate:"max=10,dive,url"`
	Tags        []string   `json:"tags" validate:"max=20,dive,max=30"`
}

func (in *TripInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Duration = strings.TrimSpace(in.Duration)
	in.Images = model.StringArray(in.Images).Normalize()
	in.Tags = model.StringArray(in.Tags).Normalize()
}

// TripDetail is a trip with its linked gear, as shown on the public trip page
type TripDetail struct {
	model.Trip
	Gear []model.Gear `json:"gear"`
}

type TripService interface {
	CreateTrip(userID string, input TripInput) (*model.Trip, error)
	GetTrip(userID, tripID string) (*model.Trip, error)
	GetTripBySlug(slug string) (*TripDetail, error)
	ListTrips(userID string) ([]model.Trip, error)
	UpdateTrip(userID, tripID string, input TripInput) (*model.Trip, error)
	DeleteTrip(userID, tripID string) error

	// SetTripGear replaces the trip's gear with gearIDs, all or nothing
	SetTripGear(userID, tripID string, gearIDs []string) ([]model.Gear, error)
	ListTripGear(userID, tripID string) ([]model.Gear, error)
}

type tripService struct {
	db        *gorm.DB
	tripRepo  repository.TripRepository
	gearRepo  repository.GearRepository
	validator *validation.Validator
	events    EventPublisher
}

func NewTripService(
	db *gorm.DB,
	tripRepo repository.TripRepository,
	gearRepo repository.GearRepository,
	validator *validation.Validator,
	events EventPublisher,
) TripService {
	return &tripService{
		db:        db,
		tripRepo:  tripRepo,
		gearRepo:  gearRepo,
		validator: validator,
		events:    publisherOrNoop(events),
	}
}

// uniqueSlug draws slugs until one is unused. The unique index still guards the insert.
func (s *tripService) uniqueSlug(title string) (string, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := util.TripSlug(title)
		if err != nil {
			return "", err
		}
		exists, err := s.tripRepo.SlugExists(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
	}
	return "", errors.New("could not allocate a unique trip slug")
}

func applyTripInput(trip *model.Trip, input TripInput) {
	trip.Title = input.Title
	trip.Description = input.Description
	trip.Location = input.Location
	trip.Duration = input.Duration
	trip.Date = input.Date
	trip.Images = model.StringArray(input.Images)
	trip.Tags = model.StringArray(input.Tags)
}

func (s *tripService) CreateTrip(userID string, input TripInput) (*model.Trip, error) {
	input.normalize()
	if err := s.validator.Validate(&input); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(input.Title)
	if err != nil {
		return nil, err
	}

	trip := &model.Trip{OwnerID: userID, Slug: slug}
	applyTripInput(trip, input)
	if err := s.tripRepo.Create(trip); err != nil {
		return nil, err
	}

	logger.Info("Trip created", map[string]interface{}{
		"user_id": userID,
		"trip_id": trip.ID,
		"slug":    trip.Slug,
	})
	s.events.Publish(userID, EventTripChanged, trip)
	return trip, nil
}

func (s *tripService) GetTrip(userID, tripID string) (*model.Trip, error) {
	return loadOwnedTrip(s.tripRepo, userID, tripID)
}

func (s *tripService) GetTripBySlug(slug string) (*TripDetail, error) {
	trip, err := s.tripRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(apperrors.TripNotFound, "trip not found")
		}
		return nil, err
	}

	gear, err := s.tripRepo.FindGear(trip.ID)
	if err != nil {
		return nil, err
	}
	return &TripDetail{Trip: *trip, Gear: gear}, nil
}

func (s *tripService) ListTrips(userID string) ([]model.Trip, error) {
	return s.tripRepo.FindByOwner(userID)
}

func (s *tripService) UpdateTrip(userID, tripID string, input TripInput) (*model.Trip, error) {
	input.normalize()
	if err := s.validator.Validate(&input); err != nil {
		return nil, err
	}

	trip, err := loadOwnedTrip(s.tripRepo, userID, tripID)
	if err != nil {
		return nil, err
	}

	if input.Title != trip.Title {
		slug, err := s.uniqueSlug(input.Title)
		if err != nil {
			return nil, err
		}
		trip.Slug = slug
	}

	applyTripInput(trip, input)
	if err := s.tripRepo.Update(trip); err != nil {
		return nil, err
	}

	s.events.Publish(userID, EventTripChanged, trip)
	return trip, nil
}

func (s *tripService) DeleteTrip(userID, tripID string) error {
	if _, err := loadOwnedTrip(s.tripRepo, userID, tripID); err != nil {
		return err
	}
	if err := s.tripRepo.Delete(tripID); err != nil {
		return err
	}

	logger.Info("Trip deleted", map[string]interface{}{
		"user_id": userID,
		"trip_id": tripID,
	})
	s.events.Publish(userID, EventTripDeleted, map[string]interface{}{"trip_id": tripID})
	return nil
}

func (s *tripService) SetTripGear(userID, tripID string, gearIDs []string) ([]model.Gear, error) {
	ids, err := gearIDSet(gearIDs)
	if err != nil {
		return nil, err
	}

	var linked []model.Gear
	err = s.db.Transaction(func(tx *gorm.DB) error {
		tripRepo := s.tripRepo.WithTx(tx)
		gearRepo := s.gearRepo.WithTx(tx)

		if _, err := loadOwnedTrip(tripRepo, userID, tripID); err != nil {
			return err
		}
		if err := requireOwnedGear(gearRepo, userID, ids); err != nil {
			return err
		}
		if err := tripRepo.ReplaceGear(tripID, ids); err != nil {
			return err
		}

		var err error
		linked, err = tripRepo.FindGear(tripID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Trip gear replaced", map[string]interface{}{
		"user_id":    userID,
		"trip_id":    tripID,
		"gear_count": len(linked),
	})
	s.events.Publish(userID, EventTripChanged, map[string]interface{}{
		"trip_id":  tripID,
		"gear_ids": ids,
	})
	return linked, nil
}

func (s *tripService) ListTripGear(userID, tripID string) ([]model.Gear, error) {
	if _, err := loadOwnedTrip(s.tripRepo, userID, tripID); err != nil {
		return nil, err
	}
	return s.tripRepo.FindGear(tripID)
}
