// Package api binds the rental pages and form actions to gin routes.
package api

import (
	"context"
	"html/template"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/homeaway/backend/internal/actions"
	"github.com/pageza/homeaway/backend/internal/middleware"
	"github.com/pageza/homeaway/backend/internal/service"
)

// Handler serves the public pages, the signed-in pages and the form actions
type Handler struct {
	actions    *actions.Actions
	profiles   service.IProfileService
	properties service.IPropertyService
	favorites  service.IFavoriteService
	quota      RentalQuota
	pages      *template.Template
	logger     *slog.Logger
}

// RentalQuota reports how many listings a caller may still create in the
// current rate-limit window
type RentalQuota interface {
	GetRemainingRequests(ctx context.Context, id string) (int, time.Time, error)
}

// Deps groups the constructor arguments of Handler
type Deps struct {
	Actions    *actions.Actions
	Profiles   service.IProfileService
	Properties service.IPropertyService
	Favorites  service.IFavoriteService
	Quota      RentalQuota
	Logger     *slog.Logger
}

// RouteOptions carries optional middleware for individual routes
type RouteOptions struct {
	// PageCache wraps the public pages
	PageCache gin.HandlerFunc
	// RentalLimit wraps the create-rental action
	RentalLimit gin.HandlerFunc
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		actions:    d.Actions,
		profiles:   d.Profiles,
		properties: d.Properties,
		favorites:  d.Favorites,
		quota:      d.Quota,
		pages:      parsePages(),
		logger:     logger,
	}
}

// CacheVariant only lets anonymous renders into the page cache. Signed-in
// pages embed the caller's favorite ids, which a toggle elsewhere changes.
func CacheVariant(c *gin.Context) (string, bool) {
	if middleware.CurrentIdentity(c) != nil {
		return "", false
	}
	return "anonymous", true
}

func chain(mw gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{mw, h}
}

func (h *Handler) RegisterRoutes(router gin.IRouter, opts RouteOptions) {
	router.GET("/", chain(opts.PageCache, h.Home)...)
	router.GET("/properties/:id", chain(opts.PageCache, h.PropertyDetails)...)
	router.GET("/favorites", h.Favorites)
	router.GET("/profile", h.Profile)
	router.GET("/profile/create", h.CreateProfilePage)
	router.GET("/rentals/create", h.CreateRentalPage)
	router.GET("/api/profile-image", h.ProfileImage)

	router.POST("/profile/create", h.CreateProfile)
	router.POST("/profile", h.UpdateProfile)
	router.POST("/profile/image", h.UpdateProfileImage)
	router.POST("/rentals/create", chain(opts.RentalLimit, h.CreateRental)...)
	router.POST("/favorites/toggle", h.ToggleFavorite)
}
