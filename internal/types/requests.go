package types

// ProfileInput is the validated create/update-profile form
type ProfileInput struct {
	FirstName string `form:"firstName" validate:"min=2"`
	LastName  string `form:"lastName" validate:"min=2"`
	Username  string `form:"username" validate:"min=2"`
}

// PropertyInput is the validated create-rental form. Integer fields are
// coerced from their string form before the constraints run.
type PropertyInput struct {
	Name        string `form:"name" validate:"min=2,max=100"`
	Tagline     string `form:"tagline" validate:"min=2,max=100"`
	Price       int    `form:"price" validate:"min=0"`
	Category    string `form:"category"`
	Description string `form:"description" validate:"minwords=10,maxwords=1000"`
	Country     string `form:"country"`
	Guests      int    `form:"guests" validate:"min=0"`
	Bedrooms    int    `form:"bedrooms" validate:"min=0"`
	Beds        int    `form:"beds" validate:"min=0"`
	Baths       int    `form:"baths" validate:"min=0"`
	Amenities   string `form:"amenities"`
}

// ImageInput describes an uploaded file before it is stored
type ImageInput struct {
	Present     bool
	Size        int64
	ContentType string
}

// ToggleFavoriteInput carries the hidden fields of the favorite toggle form.
// FavoriteID is empty when the property is not yet a favorite.
type ToggleFavoriteInput struct {
	PropertyID string `form:"propertyId" binding:"required"`
	FavoriteID string `form:"favoriteId"`
	Pathname   string `form:"pathname"`
}
