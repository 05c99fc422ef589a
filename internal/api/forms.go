package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/homeaway/backend/internal/middleware"
	"github.com/pageza/homeaway/backend/internal/storage"
	"github.com/pageza/homeaway/backend/internal/types"
)

// maxFormMemory bounds the multipart parts kept in memory; larger parts spill to disk
const maxFormMemory = 4 << 20

// imageField is the multipart field carrying uploaded images
const imageField = "image"

// formValues flattens the submitted form. Absent fields stay absent so the
// validator can report them.
func formValues(c *gin.Context) (map[string]string, error) {
	err := c.Request.ParseMultipartForm(maxFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	raw := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw, nil
}

// formAsset opens the uploaded image. A missing file yields an empty Asset,
// which the image check rejects.
func formAsset(c *gin.Context) (storage.Asset, func()) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		return storage.Asset{}, func() {}
	}
	f, err := fh.Open()
	if err != nil {
		return storage.Asset{}, func() {}
	}
	return storage.Asset{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { _ = f.Close() }
}

func (h *Handler) badForm(c *gin.Context, err error) {
	h.logger.Info("rejected malformed form", slog.String("path", c.Request.URL.Path), slog.Any("error", err))
	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid form submission"})
}

// CreateProfile handles the create-profile form
func (h *Handler) CreateProfile(c *gin.Context) {
	raw, err := formValues(c)
	if err != nil {
		h.badForm(c, err)
		return
	}
	respond(c, h.actions.CreateProfile(c.Request.Context(), middleware.CurrentIdentity(c), raw))
}

// UpdateProfile handles the update-profile form
func (h *Handler) UpdateProfile(c *gin.Context) {
	raw, err := formValues(c)
	if err != nil {
		h.badForm(c, err)
		return
	}
	respond(c, h.actions.UpdateProfile(c.Request.Context(), middleware.CurrentIdentity(c), raw))
}

// UpdateProfileImage handles the profile image form
func (h *Handler) UpdateProfileImage(c *gin.Context) {
	if _, err := formValues(c); err != nil {
		h.badForm(c, err)
		return
	}
	asset, closeAsset := formAsset(c)
	defer closeAsset()
	respond(c, h.actions.UpdateProfileImage(c.Request.Context(), middleware.CurrentIdentity(c), asset))
}

// CreateRental handles the create-rental form
func (h *Handler) CreateRental(c *gin.Context) {
	raw, err := formValues(c)
	if err != nil {
		h.badForm(c, err)
		return
	}
	asset, closeAsset := formAsset(c)
	defer closeAsset()
	respond(c, h.actions.CreateProperty(c.Request.Context(), middleware.CurrentIdentity(c), raw, asset))
}

// ToggleFavorite handles the favorite button
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var in types.ToggleFavoriteInput
	if err := c.ShouldBind(&in); err != nil {
		h.badForm(c, err)
		return
	}
	respond(c, h.actions.ToggleFavorite(c.Request.Context(), middleware.CurrentIdentity(c), in))
}
