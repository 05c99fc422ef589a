package testhelpers

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/homeaway/backend/internal/models"
)

// CreateProfile inserts a profile for identityID
func CreateProfile(t *testing.T, db *gorm.DB, identityID string) *models.Profile {
	t.Helper()
	p := &models.Profile{
		ClerkID:      identityID,
		FirstName:    "Test",
		LastName:     "Owner",
		Username:     "owner-" + identityID,
		Email:        identityID + "@example.com",
		ProfileImage: "https://img.test/" + identityID + ".png",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return p
}

// PropertyOption customises a fixture property
type PropertyOption func(*models.Property)

func WithCategory(category string) PropertyOption {
	return func(p *models.Property) { p.Category = category }
}

func WithTagline(tagline string) PropertyOption {
	return func(p *models.Property) { p.Tagline = tagline }
}

func CreatedAt(at time.Time) PropertyOption {
	return func(p *models.Property) { p.CreatedAt = at }
}

// CreateProperty inserts a property owned by ownerID
func CreateProperty(t *testing.T, db *gorm.DB, ownerID, name string, opts ...PropertyOption) *models.Property {
	t.Helper()
	p := &models.Property{
		Name:        name,
		Tagline:     "A lovely place to stay",
		Category:    "cabin",
		Image:       "https://img.test/property.png",
		Country:     "NO",
		Description: "one two three four five six seven eight nine ten",
		Price:       100,
		Guests:      2,
		Bedrooms:    1,
		Beds:        1,
		Baths:       1,
		Amenities:   models.Amenities{{Name: "wifi", Selected: true}, {Name: "pool"}},
		ProfileID:   ownerID,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create property: %v", err)
	}
	return p
}
