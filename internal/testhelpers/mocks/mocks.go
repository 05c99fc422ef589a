package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/storage"
	"github.com/pageza/homeaway/backend/internal/types"
)

// MockProfileService is a mock implementation of service.IProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, identityID string) (*models.Profile, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) FetchProfileImage(ctx context.Context, identityID string) (string, error) {
	args := m.Called(ctx, identityID)
	return args.String(0), args.Error(1)
}

func (m *MockProfileService) CreateProfile(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, identityID string, in *types.ProfileInput) error {
	args := m.Called(ctx, identityID, in)
	return args.Error(0)
}

func (m *MockProfileService) UpdateProfileImage(ctx context.Context, identityID, imageURL string) error {
	args := m.Called(ctx, identityID, imageURL)
	return args.Error(0)
}

// MockPropertyService is a mock implementation of service.IPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) ListProperties(ctx context.Context, filter types.PropertyFilter) ([]types.PropertyCard, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PropertyCard), args.Error(1)
}

func (m *MockPropertyService) CreateProperty(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyService) GetPropertyDetails(ctx context.Context, propertyID string) (*types.PropertyDetails, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PropertyDetails), args.Error(1)
}

// MockFavoriteService is a mock implementation of service.IFavoriteService
type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) FindFavoriteID(ctx context.Context, identityID, propertyID string) (string, error) {
	args := m.Called(ctx, identityID, propertyID)
	return args.String(0), args.Error(1)
}

func (m *MockFavoriteService) CreateFavorite(ctx context.Context, identityID, propertyID string) (*models.Favorite, error) {
	args := m.Called(ctx, identityID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockFavoriteService) DeleteFavorite(ctx context.Context, identityID, favoriteID string) error {
	args := m.Called(ctx, identityID, favoriteID)
	return args.Error(0)
}

func (m *MockFavoriteService) ListFavorites(ctx context.Context, identityID string) ([]types.PropertyCard, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PropertyCard), args.Error(1)
}

// MockIdentityProvider is a mock implementation of identity.Provider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) CurrentIdentity(ctx context.Context, token string) (*identity.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockIdentityProvider) SetPrivateFlag(ctx context.Context, identityID, key string, value bool) error {
	args := m.Called(ctx, identityID, key, value)
	return args.Error(0)
}

// MockUploader is a mock image uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, asset storage.Asset) (string, error) {
	args := m.Called(ctx, asset)
	return args.String(0), args.Error(1)
}

// MockInvalidator records stale paths
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) MarkStale(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
