package actions

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/types"
)

// ToggleFavorite deletes the favorite named by in.FavoriteID, or creates one
// when it is empty. The caller's view of the prior state decides the branch,
// so two concurrent toggles are not serialised here.
func (a *Actions) ToggleFavorite(ctx context.Context, caller *identity.Identity, in types.ToggleFavoriteInput) Outcome {
	const name = "toggle_favorite"
	ctx, end := a.start(ctx, name, caller)
	out, err := a.toggleFavorite(ctx, caller, in)
	end(err)
	return a.finish(ctx, name, caller, out, err)
}

func (a *Actions) toggleFavorite(ctx context.Context, caller *identity.Identity, in types.ToggleFavoriteInput) (Outcome, error) {
	if out, ok := requireProfile(caller); !ok {
		return out, nil
	}

	var msg string
	if in.FavoriteID != "" {
		if err := a.favorites.DeleteFavorite(ctx, caller.ID, in.FavoriteID); err != nil {
			return renderError(err), err
		}
		msg = "Removed from Faves"
	} else {
		if _, err := a.favorites.CreateFavorite(ctx, caller.ID, in.PropertyID); err != nil {
			return renderError(err), err
		}
		msg = "Added to Faves"
	}

	if togglePage(in.Pathname, in.PropertyID) {
		a.markStale(ctx, in.Pathname)
	}
	return message(msg), nil
}

// togglePage reports whether the client-supplied pathname is a page showing
// the toggled property. Anything else is never marked stale.
func togglePage(pathname, propertyID string) bool {
	switch pathname {
	case HomePath, FavoritesPath:
		return true
	}
	id, err := uuid.Parse(propertyID)
	return err == nil && pathname == PropertyPath+id.String() && propertyID == id.String()
}
