package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categories a property can be listed under
var Categories = []string{
	"cabin",
	"tent",
	"airstream",
	"cottage",
	"container",
	"caravan",
	"tiny",
	"magic",
	"warehouse",
	"lodge",
}

// Amenity is one named flag of a property's amenity set
type Amenity struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Amenities is stored as a JSON document in a text column
type Amenities []Amenity

// DefaultAmenities is the list offered on the create-rental form
func DefaultAmenities() Amenities {
	names := []string{
		"cloud storage",
		"parking",
		"fireplace",
		"wifi",
		"air conditioning",
		"heating",
		"kitchen",
		"washer",
		"dryer",
		"pool",
		"hot tub",
		"pets allowed",
		"barbecue grill",
		"outdoor furniture",
		"camp stove",
	}
	out := make(Amenities, len(names))
	for i, n := range names {
		out[i] = Amenity{Name: n}
	}
	return out
}

// Value implements the driver.Valuer interface
func (a Amenities) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *Amenities) Scan(value interface{}) error {
	if value == nil {
		*a = Amenities{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported amenities type %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// Selected returns the names of the amenities that are switched on
func (a Amenities) Selected() []string {
	var names []string
	for _, am := range a {
		if am.Selected {
			names = append(names, am.Name)
		}
	}
	return names
}

// ParseAmenities decodes the serialized amenities form field
func ParseAmenities(raw string) (Amenities, error) {
	if raw == "" {
		return Amenities{}, nil
	}
	var a Amenities
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("invalid amenities: %w", err)
	}
	return a, nil
}

// Property is a rentable listing owned by a profile
type Property struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Tagline     string    `gorm:"size:255;not null" json:"tagline"`
	Category    string    `gorm:"size:50;not null;index" json:"category"`
	Image       string    `gorm:"type:text;not null" json:"image"`
	Country     string    `gorm:"size:8;not null" json:"country"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       int       `gorm:"not null" json:"price"`
	Guests      int       `gorm:"not null" json:"guests"`
	Bedrooms    int       `gorm:"not null" json:"bedrooms"`
	Beds        int       `gorm:"not null" json:"beds"`
	Baths       int       `gorm:"not null" json:"baths"`
	Amenities   Amenities `gorm:"type:text;not null" json:"amenities"`
	ProfileID   string    `gorm:"size:255;not null;index" json:"profile_id"`
	Profile     *Profile  `gorm:"foreignKey:ProfileID;references:ClerkID" json:"profile,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a primary key when the caller did not
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
