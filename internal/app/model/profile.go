package model

import "time"

// Profile is the public face of an auth-provider user.
// ID is the provider's subject claim, not generated here.
type Profile struct {
	ID          string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Username    string `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	Email       string `gorm:"type:varchar(255)" json:"-"`
	DisplayName string `gorm:"type:varchar(50)" json:"display_name"`
	Bio         string `gorm:"type:text" json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	Location    string `gorm:"type:varchar(100)" json:"location"`
	Website     string `json:"website"`

	// Denormalised stats, refreshed by the scheduler
	GearCount      int64      `gorm:"default:0" json:"gear_count"`
	TripCount      int64      `gorm:"default:0" json:"trip_count"`
	TotalWeightG   float64    `gorm:"default:0" json:"total_weight_g"`
	StatsUpdatedAt *time.Time `json:"stats_updated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// PublicProfile is what the public profile page renders
type PublicProfile struct {
	Username     string  `json:"username"`
	DisplayName  string  `json:"display_name"`
	Bio          string  `json:"bio"`
	AvatarURL    string  `json:"avatar_url"`
	Location     string  `json:"location"`
	Website      string  `json:"website"`
	GearCount    int64   `json:"gear_count"`
	TripCount    int64   `json:"trip_count"`
	TotalWeightG float64 `json:"total_weight_g"`
	Gear         []Gear  `json:"gear"`
	Trips        []Trip  `json:"trips"`
}
