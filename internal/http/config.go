package http

import (
	"time"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/obs"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/storage"
)

// APIPrefix is where every API route is mounted.
const APIPrefix = "/FreeArch"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Accounts    AccountService
	Tokens      TokenService
	Profiles    ProfileStore
	Excavations ExcavationStore
	Uploads     *storage.Uploader
	Database    *database.Database

	// Optional collaborators; nil disables them
	LoginLimiter *auth.RateLimiter
	Audit        *audit.Service
	Metrics      *obs.Metrics

	// Per-IP limit on the open routes
	RateLimitPerSecond int
	RateLimitBurst     int

	RequestTimeout time.Duration

	// HSTSMaxAge enables Strict-Transport-Security when positive
	HSTSMaxAge int

	// TrustedProxies whose X-Forwarded-For is believed; nil trusts none
	TrustedProxies []string

	// Application info
	Version string
}
