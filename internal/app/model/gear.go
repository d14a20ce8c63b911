package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GearSpecs is stored as a JSON column on gear
type GearSpecs struct {
	Brand    string   `json:"brand,omitempty"`
	WeightG  *float64 `json:"weight_g,omitempty"`
	PriceTWD *float64 `json:"price_twd,omitempty"`
	BuyLink  string   `json:"buy_link,omitempty"`
	LinkName string   `json:"link_name,omitempty"`
}

// Gear is a piece of equipment. Category holds the category NAME (soft reference),
// so renaming a category must rewrite this column explicitly.
type Gear struct {
	ID          string                        `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID     string                        `gorm:"type:varchar(64);not null;index:idx_gear_owner_category,priority:1" json:"owner_id"`
	Name        string                        `gorm:"type:varchar(100);not null" json:"name"`
	Category    string                        `gorm:"type:varchar(20);index:idx_gear_owner_category,priority:2" json:"category"`
	Description string                        `gorm:"type:text" json:"description"`
	ImageURL    string                        `json:"image_url"`
	Specs       datatypes.JSONType[GearSpecs] `json:"specs"`
	Tags        StringArray                   `json:"tags"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

func (Gear) TableName() string {
	return "gear"
}

func (g *Gear) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = newID()
	}
	return nil
}

// WeightG returns the recorded weight, or 0 when unknown
func (g *Gear) WeightG() float64 {
	if w := g.Specs.Data().WeightG; w != nil {
		return *w
	}
	return 0
}
