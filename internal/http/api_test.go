package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/accounts"
	auditrepo "github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/excavations"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/profiles"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/thumbnails"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/obs"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/storage"
)

// testAPI is the whole router over an in-memory database.
type testAPI struct {
	t       *testing.T
	router  *gin.Engine
	db      *database.Database
	audit   *audit.Service
	metrics *obs.Metrics
	tokens  *auth.Issuer
}

// newTestAPI builds the router; opts may adjust the config before it is used.
func newTestAPI(t *testing.T, opts ...func(*RouterConfig)) *testAPI {
	t.Helper()

	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	denylist := auth.NewMemoryDenylist(time.Minute)
	t.Cleanup(denylist.Stop)
	tokens, err := auth.NewIssuer(config.Token{
		Secret:           "http-test-secret",
		ExpiresInSeconds: 3600,
		Issuer:           config.DefaultTokenIssuer,
	}, auth.WithDenylist(denylist))
	require.NoError(t, err)

	service := auth.NewService(accounts.NewRepository(db.DB), tokens, config.Auth{
		BcryptCost:        bcrypt.MinCost,
		MinPasswordLength: 4,
		MaxLoginAttempts:  3,
		LockoutDuration:   time.Minute,
	})

	limiter := auth.NewRateLimiter(auth.RateLimitConfig{MaxAttempts: 50})
	t.Cleanup(limiter.Stop)

	blobs, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	t.Cleanup(auditService.Wait)
	metrics := obs.NewMetrics()

	cfg := RouterConfig{
		Accounts:           service,
		Tokens:             tokens,
		Profiles:           profiles.NewRepository(db.DB),
		Excavations:        excavations.NewRepository(db.DB),
		Uploads:            storage.NewUploader(blobs, thumbnails.NewRepository(db.DB), 1024),
		Database:           db,
		LoginLimiter:       limiter,
		Audit:              auditService,
		Metrics:            metrics,
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
		RequestTimeout:     5 * time.Second,
		Version:            "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	router := NewRouter(cfg)

	return &testAPI{t: t, router: router, db: db, audit: auditService, metrics: metrics, tokens: tokens}
}

// do sends body as JSON (when not nil) and, if token is set, the
// x-access-token header.
func (a *testAPI) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}
	return a.serve(req)
}

func (a *testAPI) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/FreeArch/users", gin.H{"email": email, "password": password}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode(a.t, w)["id"].(string)
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/FreeArch/users/authenticate", gin.H{"email": email, "password": password}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode(a.t, w)["token"].(string)
}

// registerArchaeologist creates an archaeologist with a full profile and
// returns its public id and a token.
func (a *testAPI) registerArchaeologist(email string) (string, string) {
	a.t.Helper()
	body := archaeologistBody(email)
	w := a.do(http.MethodPost, "/FreeArch/archaeologists", body, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode(a.t, w)["id"].(string), a.login(email, "p4ss")
}

func archaeologistBody(email string) gin.H {
	return gin.H{
		"email":               email,
		"password":            "p4ss",
		"first_name":          "Mary",
		"last_name":           "Leakey",
		"date_of_birth":       "1913-02-06",
		"address":             "1 Olduvai Road",
		"city":                "Cambridge",
		"postcode":            "CB2 1TN",
		"home_phone_number":   "01223 000000",
		"mobile_phone_number": "07700 900000",
		"experience":          "40 years",
		"specialism":          "Palaeoanthropology",
		"cscs_card":           "Gold",
		"description":         "Field archaeologist",
	}
}

func companyBody(email string) gin.H {
	return gin.H{
		"email":        email,
		"password":     "p4ss",
		"name":         "Trowel & Co",
		"address1":     "2 Barrow Lane",
		"city":         "York",
		"postcode":     "YO1 7HH",
		"phone_number": "01904 000000",
		"url":          "https://trowel.example",
		"description":  "Commercial units",
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
