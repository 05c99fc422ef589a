package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/types"
)

// FavoriteService handles the profile/property join records
type FavoriteService struct {
	db *gorm.DB
}

var _ IFavoriteService = (*FavoriteService)(nil)

// NewFavoriteService creates a new FavoriteService instance
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// FindFavoriteID returns the favorite id for the pair, or "" when none exists
func (s *FavoriteService) FindFavoriteID(ctx context.Context, identityID, propertyID string) (string, error) {
	pid, err := uuid.Parse(propertyID)
	if err != nil {
		return "", nil
	}

	var fav models.Favorite
	err = s.db.WithContext(ctx).
		Select("id").
		Where("property_id = ? AND profile_id = ?", pid, identityID).
		First(&fav).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", persistenceError("find favorite", err)
	}
	return fav.ID.String(), nil
}

// CreateFavorite inserts the pair. A duplicate fails on the composite index.
func (s *FavoriteService) CreateFavorite(ctx context.Context, identityID, propertyID string) (*models.Favorite, error) {
	pid, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, persistenceError("create favorite", ErrPropertyNotFound)
	}

	fav := &models.Favorite{PropertyID: pid, ProfileID: identityID}
	if err := s.db.WithContext(ctx).Create(fav).Error; err != nil {
		return nil, persistenceError("create favorite", err)
	}
	return fav, nil
}

// DeleteFavorite hard-deletes a favorite by id. Favorites of other profiles
// are reported as not found.
func (s *FavoriteService) DeleteFavorite(ctx context.Context, identityID, favoriteID string) error {
	id, err := uuid.Parse(favoriteID)
	if err != nil {
		return persistenceError("delete favorite", ErrFavoriteNotFound)
	}

	result := s.db.WithContext(ctx).Where("id = ? AND profile_id = ?", id, identityID).Delete(&models.Favorite{})
	if result.Error != nil {
		return persistenceError("delete favorite", result.Error)
	}
	if result.RowsAffected == 0 {
		return persistenceError("delete favorite", ErrFavoriteNotFound)
	}
	return nil
}

// ListFavorites returns the favorited properties of an identity
func (s *FavoriteService) ListFavorites(ctx context.Context, identityID string) ([]types.PropertyCard, error) {
	cards := []types.PropertyCard{}
	err := s.db.WithContext(ctx).
		Table("favorites").
		Select(cardColumns).
		Joins("JOIN properties ON properties.id = favorites.property_id").
		Where("favorites.profile_id = ?", identityID).
		Order("favorites.created_at DESC").
		Scan(&cards).Error
	if err != nil {
		return nil, persistenceError("list favorites", err)
	}
	return cards, nil
}
