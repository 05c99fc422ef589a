package actions

import (
	"context"
	"log/slog"

	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/metrics"
	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/storage"
	"github.com/pageza/homeaway/backend/internal/validator"
)

// CreateProfile inserts the caller's profile and sets the identity's
// hasProfile flag. The two writes are not atomic: when the flag update fails
// the profile row stays behind and the caller sees the error message.
func (a *Actions) CreateProfile(ctx context.Context, caller *identity.Identity, raw map[string]string) Outcome {
	const name = "create_profile"
	ctx, end := a.start(ctx, name, caller)
	out, err := a.createProfile(ctx, caller, raw)
	end(err)
	return a.finish(ctx, name, caller, out, err)
}

func (a *Actions) createProfile(ctx context.Context, caller *identity.Identity, raw map[string]string) (Outcome, error) {
	if caller == nil {
		return message("Please login to create a profile"), identity.ErrUnauthenticated
	}

	in, err := validator.ParseProfile(raw)
	if err != nil {
		return renderError(err), err
	}

	profile := &models.Profile{
		ClerkID:      caller.ID,
		Email:        caller.Email,
		ProfileImage: caller.ImageURL,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
	}
	if err := a.profiles.CreateProfile(ctx, profile); err != nil {
		return renderError(err), err
	}

	if err := a.identities.SetPrivateFlag(ctx, caller.ID, identity.HasProfileKey, true); err != nil {
		a.logger.ErrorContext(ctx, "profile created but identity flag not set",
			slog.String("identity", caller.ID),
			slog.String("profile", profile.ID.String()),
			slog.Any("error", err))
		return renderError(err), err
	}

	return redirect(HomePath), nil
}

// UpdateProfile changes the caller's name fields
func (a *Actions) UpdateProfile(ctx context.Context, caller *identity.Identity, raw map[string]string) Outcome {
	const name = "update_profile"
	ctx, end := a.start(ctx, name, caller)
	out, err := a.updateProfile(ctx, caller, raw)
	end(err)
	return a.finish(ctx, name, caller, out, err)
}

func (a *Actions) updateProfile(ctx context.Context, caller *identity.Identity, raw map[string]string) (Outcome, error) {
	if out, ok := requireProfile(caller); !ok {
		return out, nil
	}

	in, err := validator.ParseProfile(raw)
	if err != nil {
		return renderError(err), err
	}
	if err := a.profiles.UpdateProfile(ctx, caller.ID, in); err != nil {
		return renderError(err), err
	}

	a.markStale(ctx, ProfilePath)
	return message("Profile updated successfully"), nil
}

// UpdateProfileImage uploads a new avatar and stores its URL
func (a *Actions) UpdateProfileImage(ctx context.Context, caller *identity.Identity, asset storage.Asset) Outcome {
	const name = "update_profile_image"
	ctx, end := a.start(ctx, name, caller)
	out, err := a.updateProfileImage(ctx, caller, asset)
	end(err)
	return a.finish(ctx, name, caller, out, err)
}

func (a *Actions) updateProfileImage(ctx context.Context, caller *identity.Identity, asset storage.Asset) (Outcome, error) {
	if out, ok := requireProfile(caller); !ok {
		return out, nil
	}

	if err := validator.ValidateImage(imageInput(asset)); err != nil {
		return renderError(err), err
	}
	url, err := a.uploader.Upload(ctx, asset)
	if err != nil {
		return renderError(err), err
	}
	metrics.ObserveUpload(asset.Size)

	if err := a.profiles.UpdateProfileImage(ctx, caller.ID, url); err != nil {
		return renderError(err), err
	}

	a.markStale(ctx, ProfilePath)
	return message("Profile image updated successfully"), nil
}
