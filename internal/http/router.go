package http

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

// bodyOverhead is allowed on top of the upload limit for multipart framing
// and the other form fields.
const bodyOverhead = 1 << 20

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Printf("Ignoring invalid trusted proxies %v: %v", cfg.TrustedProxies, err)
	}

	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Instrument())
	}

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.HSTSMaxAge > 0 {
		router.Use(auth.StrictTransportSecurityMiddleware(cfg.HSTSMaxAge))
	}
	router.Use(RequestTimeout(cfg.RequestTimeout))

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	maxBody := int64(bodyOverhead)
	if cfg.Uploads != nil {
		maxBody += cfg.Uploads.MaxBytes()
	}
	api := router.Group(APIPrefix, MaxBodyBytes(maxBody))

	users := NewUsersController(cfg.Accounts, cfg.Tokens, cfg.LoginLimiter, cfg.Audit, cfg.Metrics)
	archaeologists := NewProfilesController(entities.AccountKindArchaeologist, cfg.Profiles, cfg.Accounts, cfg.Tokens, cfg.Audit)
	companies := NewProfilesController(entities.AccountKindCompany, cfg.Profiles, cfg.Accounts, cfg.Tokens, cfg.Audit)

	// Open routes: login and registration
	open := api.Group("", NewIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst).Middleware())
	open.POST("/users/authenticate", users.Authenticate)
	open.POST("/users", users.Register)
	open.POST("/archaeologists", archaeologists.Register)
	open.POST("/companies", companies.Register)

	// Everything else needs a token
	gate := auth.NewGate(cfg.Tokens, auth.WithRejectHook(cfg.Metrics.TokenRejected))
	protected := api.Group("", gate.Handler())

	protected.GET("/users/me", users.Me)
	protected.PUT("/users/me/password", users.ChangePassword)
	protected.POST("/users/logout", users.Logout)
	protected.DELETE("/users/me", users.Delete)
	protected.GET("/users/me/events", users.Events)

	for path, pc := range map[string]*ProfilesController{
		"/archaeologists": archaeologists,
		"/companies":      companies,
	} {
		protected.GET(path, pc.List)
		protected.GET(path+"/:id", pc.Get)
		protected.PUT(path+"/:id", pc.Update)
		protected.DELETE(path+"/:id", pc.Delete)
	}

	excavations := NewExcavationsController(cfg.Excavations, cfg.Accounts, cfg.Audit)
	protected.POST("/excavations", excavations.Create)
	protected.GET("/excavations", excavations.List)
	protected.GET("/excavations/:id", excavations.Get)
	protected.PUT("/excavations/:id", excavations.Update)
	protected.DELETE("/excavations/:id", excavations.Delete)

	if cfg.Uploads != nil {
		thumbnails := NewThumbnailsController(cfg.Uploads, cfg.Accounts, cfg.Audit, cfg.Metrics)
		protected.POST("/thumbnails", thumbnails.Upload)
		protected.GET("/thumbnails/:filename", thumbnails.Get)
	}

	return router
}
