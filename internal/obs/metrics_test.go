package obs

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestInstrument_UsesRouteTemplate(t *testing.T) {
	m := NewMetrics()
	router := gin.New()
	router.Use(m.Instrument())
	router.GET("/excavations/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/excavations/"+id, nil))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/excavations/:id",status="204"} 3`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, body, "http_in_flight_requests 0")
}

func TestRejectReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{auth.ErrTokenMissing, "missing"},
		{fmt.Errorf("verify: %w", auth.ErrTokenExpired), "expired"},
		{auth.ErrTokenRevoked, "revoked"},
		{auth.ErrTokenMalformed, "invalid"},
		{auth.ErrStoreUnavailable, "store_unavailable"},
		{errors.New("anything else"), "invalid"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RejectReason(tt.err), tt.err.Error())
	}
}

func TestCounters(t *testing.T) {
	m := NewMetrics()

	m.AuthAttempt(OutcomeSuccess)
	m.AuthAttempt(OutcomeFailure)
	m.AuthAttempt(OutcomeFailure)
	m.TokenRejected(auth.ErrTokenMissing)
	m.Upload(nil)
	m.Upload(errors.New("too big"))

	body := scrape(t, m)
	assert.Contains(t, body, `freearch_auth_attempts_total{outcome="success"} 1`)
	assert.Contains(t, body, `freearch_auth_attempts_total{outcome="failure"} 2`)
	assert.Contains(t, body, "freearch_tokens_issued_total 1")
	assert.Contains(t, body, `freearch_token_rejections_total{reason="missing"} 1`)
	assert.Contains(t, body, `freearch_uploads_total{result="stored"} 1`)
	assert.Contains(t, body, `freearch_uploads_total{result="rejected"} 1`)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.SetBuildInfo("1.2.3", "abc")
	m.SetBuildInfo("1.2.3", "abc")
	m.AuthAttempt(OutcomeLocked)

	body := scrape(t, m)
	assert.Contains(t, body, `freearch_auth_attempts_total{outcome="locked"} 1`)
	assert.Contains(t, body, `build_info{commit="abc",version="1.2.3"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}
