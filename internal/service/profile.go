package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/types"
)

// ProfileService handles profile persistence
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

// GetProfile retrieves the profile of an identity
func (s *ProfileService) GetProfile(ctx context.Context, identityID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("clerk_id = ?", identityID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, persistenceError("get profile", err)
	}
	return &profile, nil
}

// FetchProfileImage returns the profile image URL, or "" when there is no profile
func (s *ProfileService) FetchProfileImage(ctx context.Context, identityID string) (string, error) {
	var images []string
	err := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("clerk_id = ?", identityID).
		Limit(1).
		Pluck("profile_image", &images).Error
	if err != nil {
		return "", persistenceError("fetch profile image", err)
	}
	if len(images) == 0 {
		return "", nil
	}
	return images[0], nil
}

// CreateProfile inserts a new profile. A second profile for the same identity
// fails on the unique clerk_id index.
func (s *ProfileService) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return persistenceError("create profile", s.db.WithContext(ctx).Create(profile).Error)
}

// UpdateProfile changes the name fields only
func (s *ProfileService) UpdateProfile(ctx context.Context, identityID string, in *types.ProfileInput) error {
	result := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("clerk_id = ?", identityID).
		Updates(map[string]interface{}{
			"first_name": in.FirstName,
			"last_name":  in.LastName,
			"username":   in.Username,
		})
	if result.Error != nil {
		return persistenceError("update profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return persistenceError("update profile", ErrProfileNotFound)
	}
	return nil
}

// UpdateProfileImage replaces the stored image URL
func (s *ProfileService) UpdateProfileImage(ctx context.Context, identityID, imageURL string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("clerk_id = ?", identityID).
		Update("profile_image", imageURL)
	if result.Error != nil {
		return persistenceError("update profile image", result.Error)
	}
	if result.RowsAffected == 0 {
		return persistenceError("update profile image", ErrProfileNotFound)
	}
	return nil
}
