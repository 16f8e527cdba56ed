package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetricsMiddleware())
	r.GET("/room/:id/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/room/:id/", "204"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/room/abc/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/room/:id/", "204"))
	assert.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(notificationsTotal.WithLabelValues("like"))
	IncNotification("like")
	assert.Equal(t, before+1, testutil.ToFloat64(notificationsTotal.WithLabelValues("like")))

	votes := testutil.ToFloat64(votesTotal)
	IncVote()
	assert.Equal(t, votes+1, testutil.ToFloat64(votesTotal))
}
