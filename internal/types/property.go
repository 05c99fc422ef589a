package types

import (
	"time"

	"github.com/google/uuid"
)

// PropertyFilter narrows the public listing
type PropertyFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
}

// PropertyCard is the listing projection of a property
type PropertyCard struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Tagline string    `json:"tagline"`
	Country string    `json:"country"`
	Image   string    `json:"image"`
	Price   int       `json:"price"`
}

// PropertyOwner is the public part of the owning profile
type PropertyOwner struct {
	FirstName    string `json:"first_name"`
	ProfileImage string `json:"profile_image"`
}

// PropertyDetails is everything the details page shows
type PropertyDetails struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Tagline     string        `json:"tagline"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Country     string        `json:"country"`
	Description string        `json:"description"`
	Price       int           `json:"price"`
	Guests      int           `json:"guests"`
	Bedrooms    int           `json:"bedrooms"`
	Beds        int           `json:"beds"`
	Baths       int           `json:"baths"`
	Amenities   []string      `json:"amenities"`
	Owner       PropertyOwner `json:"owner"`
	CreatedAt   time.Time     `json:"created_at"`
}
