package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/homeaway/backend/config"
	"github.com/pageza/homeaway/backend/internal/actions"
	"github.com/pageza/homeaway/backend/internal/api"
	"github.com/pageza/homeaway/backend/internal/database"
	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/service"
	"github.com/pageza/homeaway/backend/internal/testhelpers"
)

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	logger := slog.New(slog.DiscardHandler)
	provider := identity.NewJWTProvider("test-secret", identity.NewMemoryMetadata())
	profiles := service.NewProfileService(db)
	properties := service.NewPropertyService(db)
	favorites := service.NewFavoriteService(db)

	handler := api.NewHandler(api.Deps{
		Actions: actions.New(actions.Deps{
			Profiles:   profiles,
			Properties: properties,
			Favorites:  favorites,
			Identities: provider,
			Logger:     logger,
		}),
		Profiles:   profiles,
		Properties: properties,
		Favorites:  favorites,
		Logger:     logger,
	})

	cfg := &config.Config{ServerPort: "0", AllowedOrigins: []string{"http://app.test"}}
	return New(Options{
		Config:     cfg,
		DB:         db,
		Identities: provider,
		Handler:    handler,
		Logger:     logger,
	}), db
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	s, db := newTestServer(t)

	w := serve(s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	require.NoError(t, database.Close(db))
	w = serve(s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	require.Equal(t, http.StatusOK, serve(s, http.MethodGet, "/").Code)

	w := serve(s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "homeaway_http_requests_total")
}

func TestProtectedRoutesRedirect(t *testing.T) {
	s, _ := newTestServer(t)

	w := serve(s, http.MethodGet, "/favorites")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, actions.SignInPath, w.Header().Get("Location"))
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)

	w := serve(s, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
