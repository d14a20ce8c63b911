package db

import (
	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table in dependency order (parents before trip_gear)
func Models() []interface{} {
	return []interface{}{
		&model.Profile{},
		&model.Category{},
		&model.Gear{},
		&model.Trip{},
		&model.TripGear{},
	}
}

// Migrate creates or updates the schema, including the (owner_id, name) unique
// index on categories and the cascading foreign keys on trip_gear.
func Migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
