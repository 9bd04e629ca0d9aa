package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_LabelsRequestContext(t *testing.T) {
	labels := map[string]string{}
	r := gin.New()
	r.Use(Profiling("/health"))
	capture := func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			labels[key] = value
			return true
		})
		c.Status(http.StatusNoContent)
	}
	r.GET("/api/v1/leases/:id", capture)
	r.GET("/health", capture)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/leases/42", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, map[string]string{
		"method":   "GET",
		"route":    "/api/v1/leases/:id",
		"resource": "leases",
	}, labels)

	clear(labels)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, labels)
}

func TestResourceFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/leases/:id/terminate": "leases",
		"/api/v1/dashboard/summary":    "dashboard",
		"/api/v2/properties":           "properties",
		"/health":                      "health",
		"":                             "",
		"/api/v1/:id":                  "",
		"/api/version/properties":      "version",
	}
	for route, want := range tests {
		assert.Equal(t, want, resourceFromRoute(route), route)
	}
}
