package model

import (
	"time"

	"gorm.io/gorm"
)

const CategoryNameMaxLength = 20

// Category groups an owner's gear on the dashboard.
// (owner_id, name) is unique; gear refers to a category by name, not by id.
type Category struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_categories_owner_name,priority:1" json:"owner_id"`
	Name      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_categories_owner_name,priority:2" json:"name"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}

// CategorySummary is a category with the number of gear rows filed under it
type CategorySummary struct {
	Category
	GearCount int64 `json:"gear_count"`
}
