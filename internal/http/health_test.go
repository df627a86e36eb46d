package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
)

func setupHealthTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)
	return db
}

func getHealth(t *testing.T, controller *HealthController) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("returns healthy when database is connected", func(t *testing.T) {
		db := setupHealthTestDB(t)
		defer db.Close()

		w, response := getHealth(t, NewHealthController(db, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Contains(t, response.Time, "T")
	})

	t.Run("reports missing database as not configured", func(t *testing.T) {
		w, response := getHealth(t, NewHealthController(nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "not configured", response.Checks["database"])
	})

	t.Run("returns unhealthy when database connection is closed", func(t *testing.T) {
		db := setupHealthTestDB(t)
		require.NoError(t, db.Close())

		w, response := getHealth(t, NewHealthController(db, "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "error")
	})
}

func TestHealthResponse_OmitsEmptyVersion(t *testing.T) {
	jsonBytes, err := json.Marshal(HealthResponse{Status: "healthy", Checks: map[string]string{}})
	require.NoError(t, err)
	assert.NotContains(t, string(jsonBytes), "version")
}

func TestRouter_HealthAndPing(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w)["message"])

	w = api.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", decode(t, w)["version"])
}

func TestRouter_SecurityHeadersAndMetrics(t *testing.T) {
	api := newTestAPI(t)
	api.register("a@b.com", "p4ss")
	api.login("a@b.com", "p4ss")

	w := api.do(http.MethodGet, "/ping", nil, "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = api.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `freearch_auth_attempts_total{outcome="success"} 1`)
	assert.Contains(t, body, `path="/FreeArch/users/authenticate"`)
}

func TestRouter_UnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/FreeArch/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
