package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/homeaway/backend/internal/actions"
	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/middleware"
	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/service"
	"github.com/pageza/homeaway/backend/internal/types"
)

// card is a listing card plus the caller's favorite id for the toggle
type card struct {
	types.PropertyCard
	Path       string
	SignedIn   bool
	FavoriteID string
}

type homePage struct {
	Filter     types.PropertyFilter
	Categories []string
	Cards      []card
}

type detailsPage struct {
	Path       string
	SignedIn   bool
	FavoriteID string
	Property   *types.PropertyDetails
}

type favoritesPage struct {
	Cards []card
}

type rentalPage struct {
	Categories []string
	Amenities  []models.Amenity
	// AmenitiesJSON seeds the serialized amenities field
	AmenitiesJSON string
	ShowQuota     bool
	Remaining     int
	QuotaResets   string
}

// Home lists properties filtered by ?search= and ?category=
func (h *Handler) Home(c *gin.Context) {
	var filter types.PropertyFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	listing, err := h.properties.ListProperties(ctx, filter)
	if err != nil {
		h.fail(c, "failed to list properties", err)
		return
	}

	caller := middleware.CurrentIdentity(c)
	h.html(c, http.StatusOK, "home", homePage{
		Filter:     filter,
		Categories: models.Categories,
		Cards:      h.cards(ctx, caller, c.Request.URL.Path, listing),
	})
}

// PropertyDetails renders one property with its owner
func (h *Handler) PropertyDetails(c *gin.Context) {
	ctx := c.Request.Context()
	details, err := h.properties.GetPropertyDetails(ctx, c.Param("id"))
	if errors.Is(err, service.ErrPropertyNotFound) {
		h.html(c, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		h.fail(c, "failed to load property", err)
		return
	}

	caller := middleware.CurrentIdentity(c)
	page := detailsPage{Path: c.Request.URL.Path, SignedIn: caller != nil, Property: details}
	if caller != nil {
		page.FavoriteID = h.favoriteID(ctx, caller, details.ID.String())
	}
	h.html(c, http.StatusOK, "property", page)
}

// Favorites lists the caller's favorite properties
func (h *Handler) Favorites(c *gin.Context) {
	caller, ok := requireProfile(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	listing, err := h.favorites.ListFavorites(ctx, caller.ID)
	if err != nil {
		h.fail(c, "failed to list favorites", err)
		return
	}
	h.html(c, http.StatusOK, "favorites", favoritesPage{
		Cards: h.cards(ctx, caller, c.Request.URL.Path, listing),
	})
}

// Profile renders the caller's profile. A caller without a stored profile is
// sent to the create form.
func (h *Handler) Profile(c *gin.Context) {
	caller := middleware.CurrentIdentity(c)
	if caller == nil {
		c.Redirect(http.StatusSeeOther, actions.SignInPath)
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), caller.ID)
	if errors.Is(err, service.ErrProfileNotFound) {
		c.Redirect(http.StatusSeeOther, actions.CreateProfilePath)
		return
	}
	if err != nil {
		h.fail(c, "failed to load profile", err)
		return
	}
	h.html(c, http.StatusOK, "profile", profile)
}

// CreateProfilePage renders the create-profile form
func (h *Handler) CreateProfilePage(c *gin.Context) {
	caller := middleware.CurrentIdentity(c)
	if caller == nil {
		c.Redirect(http.StatusSeeOther, actions.SignInPath)
		return
	}
	if caller.HasProfile {
		c.Redirect(http.StatusSeeOther, actions.HomePath)
		return
	}
	h.html(c, http.StatusOK, "create_profile", nil)
}

// CreateRentalPage renders the create-rental form
func (h *Handler) CreateRentalPage(c *gin.Context) {
	caller, ok := requireProfile(c)
	if !ok {
		return
	}

	amenities := models.DefaultAmenities()
	serialized, err := json.Marshal(amenities)
	if err != nil {
		h.fail(c, "failed to encode amenities", err)
		return
	}
	page := rentalPage{
		Categories:    models.Categories,
		Amenities:     amenities,
		AmenitiesJSON: string(serialized),
	}
	if h.quota != nil {
		remaining, resets, err := h.quota.GetRemainingRequests(c.Request.Context(), caller.ID)
		if err != nil {
			h.logger.Warn("failed to read listing quota", slog.String("identity", caller.ID), slog.Any("error", err))
		} else {
			page.ShowQuota = true
			page.Remaining = remaining
			page.QuotaResets = resets.UTC().Format("15:04 MST")
		}
	}
	h.html(c, http.StatusOK, "create_rental", page)
}

// ProfileImage returns the caller's avatar URL, empty for anonymous callers
func (h *Handler) ProfileImage(c *gin.Context) {
	caller := middleware.CurrentIdentity(c)
	if caller == nil {
		c.JSON(http.StatusOK, gin.H{"profileImage": ""})
		return
	}

	url, err := h.profiles.FetchProfileImage(c.Request.Context(), caller.ID)
	if err != nil {
		h.logger.Error("failed to fetch profile image", slog.String("identity", caller.ID), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch profile image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profileImage": url})
}

// requireProfile redirects callers that cannot see profile-gated pages
func requireProfile(c *gin.Context) (*identity.Identity, bool) {
	caller := middleware.CurrentIdentity(c)
	switch {
	case caller == nil:
		c.Redirect(http.StatusSeeOther, actions.SignInPath)
		return nil, false
	case !caller.HasProfile:
		c.Redirect(http.StatusSeeOther, actions.CreateProfilePath)
		return nil, false
	}
	return caller, true
}

func (h *Handler) cards(ctx context.Context, caller *identity.Identity, path string, listing []types.PropertyCard) []card {
	out := make([]card, len(listing))
	for i, p := range listing {
		out[i] = card{PropertyCard: p, Path: path, SignedIn: caller != nil}
		if caller != nil {
			out[i].FavoriteID = h.favoriteID(ctx, caller, p.ID.String())
		}
	}
	return out
}

// favoriteID degrades to "not a favorite" when the lookup fails
func (h *Handler) favoriteID(ctx context.Context, caller *identity.Identity, propertyID string) string {
	id, err := h.favorites.FindFavoriteID(ctx, caller.ID, propertyID)
	if err != nil {
		h.logger.Warn("failed to look up favorite",
			slog.String("identity", caller.ID),
			slog.String("property", propertyID),
			slog.Any("error", err))
		return ""
	}
	return id
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, slog.String("path", c.Request.URL.Path), slog.Any("error", err))
	_ = c.Error(err)
	h.html(c, http.StatusInternalServerError, "error", nil)
}
