package viewcache

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// VariantFunc distinguishes renders of the same URL. Returning ok=false
// bypasses the cache for that request.
type VariantFunc func(c *gin.Context) (variant string, ok bool)

// bodyRecorder copies the response body while passing it through
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// Middleware serves successful GET renders from store until their path is
// marked stale or ttl passes. Cache errors never fail the request.
func Middleware(store Store, ttl time.Duration, variant VariantFunc, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		v := c.Request.URL.RawQuery
		if variant != nil {
			suffix, ok := variant(c)
			if !ok {
				c.Next()
				return
			}
			v += "|" + suffix
		}

		ctx := c.Request.Context()
		path := c.Request.URL.Path
		gen, err := store.Generation(ctx, path)
		if err != nil {
			log.Warn("view cache generation lookup failed", slog.String("path", path), slog.Any("error", err))
			c.Next()
			return
		}

		key := PageKey(path, gen, v)

		if page, ok, err := store.Get(ctx, key); err == nil && ok {
			c.Header("X-View-Cache", "hit")
			c.Data(http.StatusOK, "text/html; charset=utf-8", page)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header("X-View-Cache", "miss")
		c.Next()

		if rec.Status() != http.StatusOK || len(c.Errors) > 0 {
			return
		}
		if err := store.Set(ctx, key, rec.body.Bytes(), ttl); err != nil {
			log.Warn("view cache store failed", slog.String("path", path), slog.Any("error", err))
		}
	}
}
