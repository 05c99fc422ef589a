package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/types"
)

const cardColumns = "properties.id, properties.name, properties.tagline, properties.country, properties.image, properties.price"

// PropertyService handles property persistence and listing queries
type PropertyService struct {
	db *gorm.DB
}

var _ IPropertyService = (*PropertyService)(nil)

// NewPropertyService creates a new PropertyService instance
func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{db: db}
}

// ListProperties returns the public listing, newest first. An empty search
// matches every row.
func (s *PropertyService) ListProperties(ctx context.Context, filter types.PropertyFilter) ([]types.PropertyCard, error) {
	query := s.db.WithContext(ctx).Model(&models.Property{}).Select(cardColumns)

	if filter.Category != "" {
		query = query.Where("properties.category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			"LOWER(properties.name) LIKE ? ESCAPE '\\' OR LOWER(properties.tagline) LIKE ? ESCAPE '\\'",
			pattern, pattern,
		)
	}

	cards := []types.PropertyCard{}
	if err := query.Order("properties.created_at DESC").Scan(&cards).Error; err != nil {
		return nil, persistenceError("list properties", err)
	}
	return cards, nil
}

// CreateProperty inserts a property owned by property.ProfileID
func (s *PropertyService) CreateProperty(ctx context.Context, property *models.Property) error {
	return persistenceError("create property", s.db.WithContext(ctx).Create(property).Error)
}

// GetPropertyDetails loads a property with its owner
func (s *PropertyService) GetPropertyDetails(ctx context.Context, propertyID string) (*types.PropertyDetails, error) {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, ErrPropertyNotFound
	}

	var p models.Property
	err = s.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, persistenceError("get property", err)
	}

	details := &types.PropertyDetails{
		ID:          p.ID,
		Name:        p.Name,
		Tagline:     p.Tagline,
		Category:    p.Category,
		Image:       p.Image,
		Country:     p.Country,
		Description: p.Description,
		Price:       p.Price,
		Guests:      p.Guests,
		Bedrooms:    p.Bedrooms,
		Beds:        p.Beds,
		Baths:       p.Baths,
		Amenities:   p.Amenities.Selected(),
		CreatedAt:   p.CreatedAt,
	}
	if p.Profile != nil {
		details.Owner = types.PropertyOwner{
			FirstName:    p.Profile.FirstName,
			ProfileImage: p.Profile.ProfileImage,
		}
	}
	return details, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
