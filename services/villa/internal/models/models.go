package models

import "time"

type Villa struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"not null"                 json:"name"`
	Details        string    `json:"details"`
	Rate           float64   `gorm:"not null"                 json:"rate"`
	Occupancy      int       `json:"occupancy"`
	Sqft           int       `json:"sqft"`
	Amenity        string    `json:"amenity"`
	ImageURL       string    `json:"imageUrl"`
	ImageLocalPath string    `json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// VillaNumber is a bookable unit of a villa, keyed by its door number.
type VillaNumber struct {
	VillaNo        int       `gorm:"primaryKey"     json:"villaNo"`
	VillaID        uint      `gorm:"index;not null" json:"villaId"`
	SpecialDetails string    `json:"specialDetails"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Villa *Villa `gorm:"foreignKey:VillaID" json:"villa,omitempty"`
}
