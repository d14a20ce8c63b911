package model

import (
	"time"

	"gorm.io/gorm"
)

type Trip struct {
	ID          string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID     string      `gorm:"type:varchar(64);not null;index" json:"owner_id"`
	Title       string      `gorm:"type:varchar(100);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Location    string      `gorm:"type:varchar(100)" json:"location"`
	Duration    string      `gorm:"type:varchar(50)" json:"duration"`
	Date        *time.Time  `json:"date"`
	Images      StringArray `json:"images"`
	Tags        StringArray `json:"tags"`
	Slug        string      `gorm:"type:varchar(140);uniqueIndex;not null" json:"slug"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Trip) TableName() string {
	return "trip"
}

func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}

// TripGear links gear to trips. Rows disappear with either side via ON DELETE CASCADE.
type TripGear struct {
	TripID    string    `gorm:"type:varchar(36);primaryKey" json:"trip_id"`
	GearID    string    `gorm:"type:varchar(36);primaryKey;index" json:"gear_id"`
	Trip      Trip      `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Gear      Gear      `gorm:"foreignKey:GearID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (TripGear) TableName() string {
	return "trip_gear"
}
