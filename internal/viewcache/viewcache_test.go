package viewcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/homeaway/backend/internal/testhelpers"
)

func newRouter(store Store, renders *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(store, time.Minute, func(c *gin.Context) (string, bool) {
		caller := c.GetHeader("X-Caller")
		return caller, caller != "nocache"
	}, slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/", func(c *gin.Context) {
		*renders++
		c.String(http.StatusOK, "render %d", *renders)
	})
	r.GET("/missing", func(c *gin.Context) {
		*renders++
		c.String(http.StatusNotFound, "nope")
	})
	return r
}

func get(r http.Handler, path, caller string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if caller != "" {
		req.Header.Set("X-Caller", caller)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareServesCachedRenderUntilStale(t *testing.T) {
	store := NewMemoryStore()
	renders := 0
	r := newRouter(store, &renders)

	w := get(r, "/", "")
	assert.Equal(t, "render 1", w.Body.String())
	assert.Equal(t, "miss", w.Header().Get("X-View-Cache"))

	w = get(r, "/", "")
	assert.Equal(t, "render 1", w.Body.String())
	assert.Equal(t, "hit", w.Header().Get("X-View-Cache"))
	assert.Equal(t, 1, renders)

	require.NoError(t, store.MarkStale(context.Background(), "/"))

	w = get(r, "/", "")
	assert.Equal(t, "render 2", w.Body.String())
	assert.Equal(t, 2, renders)
}

func TestMiddlewareKeysByQueryAndVariant(t *testing.T) {
	store := NewMemoryStore()
	renders := 0
	r := newRouter(store, &renders)

	get(r, "/?category=cabin", "")
	get(r, "/?category=tent", "")
	get(r, "/?category=cabin", "user_1")
	get(r, "/?category=cabin", "")

	assert.Equal(t, 3, renders)
}

func TestMiddlewareBypassedVariantAlwaysRenders(t *testing.T) {
	store := NewMemoryStore()
	renders := 0
	r := newRouter(store, &renders)

	for i := 1; i <= 2; i++ {
		w := get(r, "/", "nocache")
		assert.Equal(t, fmt.Sprintf("render %d", i), w.Body.String())
		assert.Empty(t, w.Header().Get("X-View-Cache"))
	}

	w := get(r, "/", "")
	assert.Equal(t, "miss", w.Header().Get("X-View-Cache"))
	assert.Equal(t, 3, renders)
}

func TestMiddlewareSkipsErrorResponses(t *testing.T) {
	store := NewMemoryStore()
	renders := 0
	r := newRouter(store, &renders)

	get(r, "/missing", "")
	w := get(r, "/missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 2, renders)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Second))
	page, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), page)

	now = now.Add(2 * time.Second)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	ctx := context.Background()
	store := NewRedisStore(client)

	gen, err := store.Generation(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, store.MarkStale(ctx, "/"))
	require.NoError(t, store.MarkStale(ctx, "/"))
	gen, err = store.Generation(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)

	key := PageKey("/", gen, "")
	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, key, []byte("<html></html>"), time.Minute))
	page, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<html></html>", string(page))
}
