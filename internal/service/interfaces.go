package service

import (
	"context"

	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/types"
)

// IProfileService defines the interface for profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, identityID string) (*models.Profile, error)
	FetchProfileImage(ctx context.Context, identityID string) (string, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
	UpdateProfile(ctx context.Context, identityID string, in *types.ProfileInput) error
	UpdateProfileImage(ctx context.Context, identityID, imageURL string) error
}

// IPropertyService defines the interface for property operations
type IPropertyService interface {
	ListProperties(ctx context.Context, filter types.PropertyFilter) ([]types.PropertyCard, error)
	CreateProperty(ctx context.Context, property *models.Property) error
	GetPropertyDetails(ctx context.Context, propertyID string) (*types.PropertyDetails, error)
}

// IFavoriteService defines the interface for favorite operations
type IFavoriteService interface {
	FindFavoriteID(ctx context.Context, identityID, propertyID string) (string, error)
	CreateFavorite(ctx context.Context, identityID, propertyID string) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, identityID, favoriteID string) error
	ListFavorites(ctx context.Context, identityID string) ([]types.PropertyCard, error)
}
