package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/homeaway/backend/internal/actions"
	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/middleware"
	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/service"
	"github.com/pageza/homeaway/backend/internal/storage"
	"github.com/pageza/homeaway/backend/internal/testhelpers"
	"github.com/pageza/homeaway/backend/internal/testhelpers/mocks"
	"github.com/pageza/homeaway/backend/internal/viewcache"
)

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	provider *identity.JWTProvider
	uploader *mocks.MockUploader
	views    *viewcache.MemoryStore
}

// envOption adjusts the handler dependencies or route options of a testEnv
type envOption func(*Deps, *RouteOptions)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	logger := slog.New(slog.DiscardHandler)
	provider := identity.NewJWTProvider("test-secret", identity.NewMemoryMetadata())
	uploader := new(mocks.MockUploader)
	views := viewcache.NewMemoryStore()

	profiles := service.NewProfileService(db)
	properties := service.NewPropertyService(db)
	favorites := service.NewFavoriteService(db)

	acts := actions.New(actions.Deps{
		Profiles:   profiles,
		Properties: properties,
		Favorites:  favorites,
		Identities: provider,
		Uploader:   uploader,
		Views:      views,
		Logger:     logger,
	})
	deps := Deps{
		Actions:    acts,
		Profiles:   profiles,
		Properties: properties,
		Favorites:  favorites,
		Logger:     logger,
	}
	routeOpts := RouteOptions{PageCache: viewcache.Middleware(views, time.Minute, CacheVariant, logger)}
	for _, opt := range opts {
		opt(&deps, &routeOpts)
	}
	h := NewHandler(deps)

	r := gin.New()
	r.Use(middleware.Identity(provider, logger), middleware.ProtectRoutes(actions.SignInPath))
	h.RegisterRoutes(r, routeOpts)

	return &testEnv{router: r, db: db, provider: provider, uploader: uploader, views: views}
}

// signIn issues a session token for id, optionally marking the profile flag
func (e *testEnv) signIn(t *testing.T, id string, hasProfile bool) string {
	t.Helper()
	if hasProfile {
		require.NoError(t, e.provider.SetPrivateFlag(context.Background(), id, identity.HasProfileKey, true))
	}
	token, err := e.provider.IssueToken(id, id+"@example.com", "")
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path, token string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), token)
}

func (e *testEnv) postForm(path string, form url.Values, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, token)
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Message
}

func multipartBody(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, imageField, filename))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func rentalFields() map[string]string {
	return map[string]string{
		"name":        "Rental Cabin",
		"tagline":     "Quiet cabin by the lake",
		"price":       "150",
		"category":    "cabin",
		"description": "a warm wooden cabin with a view over the still lake water",
		"country":     "NO",
		"guests":      "4",
		"bedrooms":    "2",
		"beds":        "3",
		"baths":       "1",
		"amenities":   `[{"name":"wifi","selected":true}]`,
	}
}

func TestHomeListsAndFilters(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "owner")
	testhelpers.CreateProperty(t, env.db, "owner", "Lakeside Cabin", func(p *models.Property) { p.Price = 1234 })
	testhelpers.CreateProperty(t, env.db, "owner", "Desert Tent", testhelpers.WithCategory("tent"), testhelpers.WithTagline("Stars all night"))

	w := env.get("/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lakeside Cabin")
	assert.Contains(t, w.Body.String(), "Desert Tent")
	assert.Contains(t, w.Body.String(), "$1,234")
	assert.Contains(t, w.Body.String(), "Sign in to save")

	w = env.get("/?category=tent", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Desert Tent")
	assert.NotContains(t, w.Body.String(), "Lakeside Cabin")

	w = env.get("/?search=STARS", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Desert Tent")
	assert.NotContains(t, w.Body.String(), "Lakeside Cabin")

	w = env.get("/?search=nothing-matches", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No results.")
}

func TestHomeServedFromCacheUntilStale(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "owner")
	testhelpers.CreateProperty(t, env.db, "owner", "First Listing")

	w := env.get("/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "miss", w.Header().Get("X-View-Cache"))

	testhelpers.CreateProperty(t, env.db, "owner", "Second Listing")

	w = env.get("/", "")
	assert.Equal(t, "hit", w.Header().Get("X-View-Cache"))
	assert.NotContains(t, w.Body.String(), "Second Listing")

	require.NoError(t, env.views.MarkStale(context.Background(), "/"))

	w = env.get("/", "")
	assert.Equal(t, "miss", w.Header().Get("X-View-Cache"))
	assert.Contains(t, w.Body.String(), "Second Listing")
}

func TestPropertyDetails(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "owner")
	property := testhelpers.CreateProperty(t, env.db, "owner", "Lakeside Cabin")

	w := env.get("/properties/"+property.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Lakeside Cabin")
	assert.Contains(t, body, "Hosted by <strong>Test</strong>")
	assert.Contains(t, body, "2 guests")
	assert.Contains(t, body, "1 bedroom")
	assert.Contains(t, body, "<li>wifi</li>")
	assert.NotContains(t, body, "<li>pool</li>")
}

func TestPropertyDetailsNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		w := env.get("/properties/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code, id)
		assert.Contains(t, w.Body.String(), "Property not found")
	}
}

func TestProtectedPagesRedirectAnonymous(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/favorites", "/profile", "/profile/create", "/rentals/create"} {
		w := env.get(path, "")
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, actions.SignInPath, w.Header().Get("Location"), path)
	}
}

func TestPagesRequireProfile(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "user_new", false)

	for _, path := range []string{"/favorites", "/profile", "/rentals/create"} {
		w := env.get(path, token)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, actions.CreateProfilePath, w.Header().Get("Location"), path)
	}

	w := env.get("/profile/create", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="firstName"`)
}

func TestCreateProfileFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "user_1", false)

	w := env.postForm("/profile/create", url.Values{
		"firstName": {"Ada"},
		"lastName":  {"Lovelace"},
		"username":  {"ada"},
	}, token)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, actions.HomePath, w.Header().Get("Location"))

	caller, err := env.provider.CurrentIdentity(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, caller.HasProfile)

	w = env.get("/profile", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Lovelace"`)

	w = env.get("/profile/create", token)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, actions.HomePath, w.Header().Get("Location"))
}

func TestCreateProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "user_1", false)

	w := env.postForm("/profile/create", url.Values{
		"firstName": {"A"},
		"lastName":  {"Lovelace"},
		"username":  {"ada"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "first name must be at least 2 characters", messageOf(t, w))

	var count int64
	require.NoError(t, env.db.Model(&models.Profile{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "user_1")
	token := env.signIn(t, "user_1", true)

	w := env.postForm("/profile", url.Values{
		"firstName": {"Grace"},
		"lastName":  {"Hopper"},
		"username":  {"grace"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Profile updated successfully", messageOf(t, w))

	var profile models.Profile
	require.NoError(t, env.db.Where("clerk_id = ?", "user_1").First(&profile).Error)
	assert.Equal(t, "Grace", profile.FirstName)
	assert.Equal(t, "grace", profile.Username)
}

func TestToggleFavorite(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "owner")
	property := testhelpers.CreateProperty(t, env.db, "owner", "Lakeside Cabin")
	testhelpers.CreateProfile(t, env.db, "user_1")
	token := env.signIn(t, "user_1", true)

	w := env.postForm("/favorites/toggle", url.Values{
		"propertyId": {property.ID.String()},
		"pathname":   {"/"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Added to Faves", messageOf(t, w))

	var favorite models.Favorite
	require.NoError(t, env.db.Where("profile_id = ?", "user_1").First(&favorite).Error)

	w = env.get("/", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`name="favoriteId" value="%s"`, favorite.ID))

	w = env.get("/favorites", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lakeside Cabin")

	w = env.postForm("/favorites/toggle", url.Values{
		"propertyId": {property.ID.String()},
		"favoriteId": {favorite.ID.String()},
		"pathname":   {"/favorites"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Removed from Faves", messageOf(t, w))

	w = env.get("/favorites", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Lakeside Cabin")
}

func TestToggleFavoriteAcrossPages(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "owner")
	property := testhelpers.CreateProperty(t, env.db, "owner", "Lakeside Cabin")
	testhelpers.CreateProfile(t, env.db, "user_1")
	token := env.signIn(t, "user_1", true)
	detailsPath := "/properties/" + property.ID.String()

	w := env.get(detailsPath, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="favoriteId" value=""`)

	w = env.postForm("/favorites/toggle", url.Values{
		"propertyId": {property.ID.String()},
		"pathname":   {"/"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Added to Faves", messageOf(t, w))

	var favorite models.Favorite
	require.NoError(t, env.db.Where("profile_id = ?", "user_1").First(&favorite).Error)

	// signed-in renders are never served from the page cache
	w = env.get(detailsPath, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-View-Cache"))
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`name="favoriteId" value="%s"`, favorite.ID))

	w = env.postForm("/favorites/toggle", url.Values{
		"propertyId": {property.ID.String()},
		"favoriteId": {favorite.ID.String()},
		"pathname":   {detailsPath},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Removed from Faves", messageOf(t, w))

	w = env.get(detailsPath, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="favoriteId" value=""`)

	w = env.postForm("/favorites/toggle", url.Values{
		"propertyId": {property.ID.String()},
		"pathname":   {detailsPath},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Added to Faves", messageOf(t, w))
}

func TestToggleFavoriteRequiresPropertyID(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "user_1")
	token := env.signIn(t, "user_1", true)

	w := env.postForm("/favorites/toggle", url.Values{"pathname": {"/"}}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid form submission", messageOf(t, w))
}

func TestCreateRental(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "user_1")
	token := env.signIn(t, "user_1", true)

	env.uploader.On("Upload", mock.Anything, mock.MatchedBy(func(a storage.Asset) bool {
		return a.Name == "cabin.png" && a.ContentType == "image/png" && a.Size == 4
	})).Return("https://img.test/cabin.png", nil).Once()

	body, contentType := multipartBody(t, rentalFields(), "cabin.png", "image/png", []byte("\x89PNG"))
	req := httptest.NewRequest(http.MethodPost, "/rentals/create", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(req, token)

	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, actions.HomePath, w.Header().Get("Location"))
	env.uploader.AssertExpectations(t)

	var property models.Property
	require.NoError(t, env.db.Where("name = ?", "Rental Cabin").First(&property).Error)
	assert.Equal(t, "user_1", property.ProfileID)
	assert.Equal(t, "https://img.test/cabin.png", property.Image)
	assert.Equal(t, []string{"wifi"}, property.Amenities.Selected())
}

func TestCreateRentalRequiresImage(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "user_1")
	token := env.signIn(t, "user_1", true)

	body, contentType := multipartBody(t, rentalFields(), "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/rentals/create", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(req, token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image is required", messageOf(t, w))
	env.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestCreateRentalUsesRentalLimit(t *testing.T) {
	env := newTestEnv(t, func(_ *Deps, o *RouteOptions) {
		o.RentalLimit = func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "slow down"})
		}
	})
	testhelpers.CreateProfile(t, env.db, "user_1")
	token := env.signIn(t, "user_1", true)

	body, contentType := multipartBody(t, rentalFields(), "cabin.png", "image/png", []byte("\x89PNG"))
	req := httptest.NewRequest(http.MethodPost, "/rentals/create", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(req, token)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	env.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestProfileImage(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "user_1")

	w := env.get("/api/profile-image", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"profileImage":""}`, w.Body.String())

	w = env.get("/api/profile-image", env.signIn(t, "user_1", true))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"profileImage":"https://img.test/user_1.png"}`, w.Body.String())
}

func TestCreateRentalPage(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateProfile(t, env.db, "user_1")

	w := env.get("/rentals/create", env.signIn(t, "user_1", true))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="airstream">Airstream</option>`)
	assert.Contains(t, w.Body.String(), "camp stove")
}

type fixedQuota struct {
	remaining int
	resets    time.Time
	err       error
}

func (q fixedQuota) GetRemainingRequests(ctx context.Context, id string) (int, time.Time, error) {
	return q.remaining, q.resets, q.err
}

func TestCreateRentalPageShowsQuota(t *testing.T) {
	resets := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		quota RentalQuota
		want  string
	}{
		{name: "remaining listings", quota: fixedQuota{remaining: 7, resets: resets}, want: "7 new listings left until 15:00 UTC"},
		{name: "quota lookup fails", quota: fixedQuota{err: errors.New("redis down")}},
		{name: "no quota configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(d *Deps, _ *RouteOptions) {
				d.Quota = tt.quota
			})
			testhelpers.CreateProfile(t, env.db, "user_1")

			w := env.get("/rentals/create", env.signIn(t, "user_1", true))
			require.Equal(t, http.StatusOK, w.Code)
			if tt.want == "" {
				assert.NotContains(t, w.Body.String(), `class="quota"`)
				return
			}
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}
