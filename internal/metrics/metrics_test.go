package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/properties/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/properties/:id", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/properties/abc", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/properties/:id", "200"))
	assert.Equal(t, before+1, after)
}

func TestObserveAction(t *testing.T) {
	before := testutil.ToFloat64(actionOutcomes.WithLabelValues("toggle_favorite", "success"))
	ObserveAction("toggle_favorite", "success")
	assert.Equal(t, before+1, testutil.ToFloat64(actionOutcomes.WithLabelValues("toggle_favorite", "success")))
}
