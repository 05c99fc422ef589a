package actions

import (
	"context"

	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/metrics"
	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/storage"
	"github.com/pageza/homeaway/backend/internal/types"
	"github.com/pageza/homeaway/backend/internal/validator"
)

func imageInput(asset storage.Asset) types.ImageInput {
	return types.ImageInput{
		Present:     asset.Body != nil,
		Size:        asset.Size,
		ContentType: asset.ContentType,
	}
}

// CreateProperty validates the rental form and image, uploads the image and
// inserts a property owned by the caller
func (a *Actions) CreateProperty(ctx context.Context, caller *identity.Identity, raw map[string]string, asset storage.Asset) Outcome {
	const name = "create_property"
	ctx, end := a.start(ctx, name, caller)
	out, err := a.createProperty(ctx, caller, raw, asset)
	end(err)
	return a.finish(ctx, name, caller, out, err)
}

func (a *Actions) createProperty(ctx context.Context, caller *identity.Identity, raw map[string]string, asset storage.Asset) (Outcome, error) {
	if out, ok := requireProfile(caller); !ok {
		return out, nil
	}

	in, err := validator.ParseProperty(raw)
	if err != nil {
		return renderError(err), err
	}
	amenities, err := models.ParseAmenities(in.Amenities)
	if err != nil {
		verr := &validator.ValidationError{Messages: []string{"amenities must be a valid list"}}
		return renderError(verr), verr
	}
	if err := validator.ValidateImage(imageInput(asset)); err != nil {
		return renderError(err), err
	}

	url, err := a.uploader.Upload(ctx, asset)
	if err != nil {
		return renderError(err), err
	}
	metrics.ObserveUpload(asset.Size)

	property := &models.Property{
		Name:        in.Name,
		Tagline:     in.Tagline,
		Category:    in.Category,
		Description: in.Description,
		Country:     in.Country,
		Price:       in.Price,
		Guests:      in.Guests,
		Bedrooms:    in.Bedrooms,
		Beds:        in.Beds,
		Baths:       in.Baths,
		Amenities:   amenities,
		Image:       url,
		ProfileID:   caller.ID,
	}
	if err := a.properties.CreateProperty(ctx, property); err != nil {
		return renderError(err), err
	}

	a.markStale(ctx, HomePath)
	return redirect(HomePath), nil
}
