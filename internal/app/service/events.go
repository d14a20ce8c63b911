package service

import (
	"context"
	"errors"
	"time"

	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	"github.com/outdoortrails/trails-hub-backend/internal/cache"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/gorm"
)

const cacheInvalidateTimeout = 2 * time.Second

// Sync event types pushed to a user's open dashboard sessions
const (
	EventCategoryCreated   = "category.created"
	EventCategoryRenamed   = "category.renamed"
	EventCategoryDeleted   = "category.deleted"
	EventCategoriesOrdered = "category.reordered"
	EventGearChanged       = "gear.changed"
	EventGearDeleted       = "gear.deleted"
	EventTripChanged       = "trip.changed"
	EventTripDeleted       = "trip.deleted"
)

// EventPublisher delivers an event to every session of userID.
// Implementations must not block; delivery is best effort.
type EventPublisher interface {
	Publish(userID string, eventType string, payload interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// profileCacheInvalidator drops the owner's cached public profile before
// forwarding an event. Services publish only after commit, so the next read
// rebuilds the profile from committed rows.
type profileCacheInvalidator struct {
	next        EventPublisher
	profileRepo repository.ProfileRepository
	cache       cache.ProfileCache
}

func NewProfileCacheInvalidator(next EventPublisher, profileRepo repository.ProfileRepository, profileCache cache.ProfileCache) EventPublisher {
	if profileCache == nil {
		profileCache = cache.NoopProfileCache{}
	}
	return &profileCacheInvalidator{
		next:        publisherOrNoop(next),
		profileRepo: profileRepo,
		cache:       profileCache,
	}
}

func (p *profileCacheInvalidator) Publish(userID string, eventType string, payload interface{}) {
	p.invalidate(userID)
	p.next.Publish(userID, eventType, payload)
}

func (p *profileCacheInvalidator) invalidate(userID string) {
	profile, err := p.profileRepo.FindByID(userID)
	if err != nil {
		// no profile yet means nothing is cached
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Failed to load profile for cache invalidation", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheInvalidateTimeout)
	defer cancel()
	if err := p.cache.Invalidate(ctx, profile.Username); err != nil {
		logger.Warn("Failed to invalidate profile cache", map[string]interface{}{
			"username": profile.Username,
			"error":    err.Error(),
		})
	}
}
