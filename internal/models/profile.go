package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile extends an external identity with rental-specific fields.
// ClerkID is the identity provider's user id.
type Profile struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	ClerkID      string    `gorm:"size:255;not null;uniqueIndex" json:"clerk_id"`
	FirstName    string    `gorm:"size:255;not null" json:"first_name"`
	LastName     string    `gorm:"size:255;not null" json:"last_name"`
	Username     string    `gorm:"size:255;not null" json:"username"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	ProfileImage string    `gorm:"type:text" json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a primary key when the caller did not
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
