package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite marks a profile's interest in a property. The composite unique
// index keeps at most one row per (profile, property) pair.
type Favorite struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	PropertyID uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_favorites_profile_property" json:"property_id"`
	ProfileID  string    `gorm:"size:255;not null;index;uniqueIndex:idx_favorites_profile_property" json:"profile_id"`
	Property   *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// BeforeCreate assigns a primary key when the caller did not
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// All lists every model for auto-migration
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&Property{},
		&Favorite{},
	}
}
