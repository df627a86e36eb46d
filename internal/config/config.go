package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type StorageBackend string

const (
	StorageBackendLocal StorageBackend = "local"
	StorageBackendS3    StorageBackend = "s3"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Token
		Auth
		RateLimit
		Redis
		Storage
		Audit
		Tasks
	}

	HTTP struct {
		Port           int32
		Host           string
		RequestTimeout time.Duration
		HSTSMaxAge     int      // Seconds; 0 leaves Strict-Transport-Security off
		TrustedProxies []string // Comma separated in TRUSTED_PROXIES
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // sqlite file
		DSN    string // postgres connection string
	}
	Token struct {
		Secret           string
		ExpiresInSeconds int
		Issuer           string
	}
	Auth struct {
		BcryptCost        int
		MinPasswordLength int

		// Login lockout
		MaxLoginAttempts int           // Failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	RateLimit struct {
		PerSecond int // Requests per second per client IP on open routes
		Burst     int
	}
	Redis struct {
		URL string // Enables the Redis token denylist when set
	}
	Storage struct {
		Backend        StorageBackend
		Dir            string
		S3Bucket       string
		S3Region       string
		S3Endpoint     string // MinIO or other S3-compatible endpoint
		S3AccessKey    string // Static credentials; the default AWS chain is used when empty
		S3SecretKey    string
		UploadMaxBytes int64
	}
	Audit struct {
		RetentionDays int
	}
	Tasks struct {
		Enabled             bool
		Workers             int
		ReleaseAfter        time.Duration
		CleanupInterval     time.Duration
		MaintenanceSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

// TokenTTL returns the configured token lifetime.
func (t Token) TokenTTL() time.Duration {
	return time.Duration(t.ExpiresInSeconds) * time.Second
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("http_request_timeout", "15s")
	v.SetDefault("hsts_max_age", 0)
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	// Token defaults
	v.SetDefault("token_secret", "") // Required, server refuses to start without it
	v.SetDefault("token_expires_in_seconds", 86400)
	v.SetDefault("token_issuer", DefaultTokenIssuer)

	// Auth defaults
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_min_password_length", 4)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	v.SetDefault("rate_limit_per_second", 5)
	v.SetDefault("rate_limit_burst", 10)
	v.SetDefault("redis_url", "")

	// Upload storage defaults
	v.SetDefault("storage_backend", string(StorageBackendLocal))
	v.SetDefault("storage_dir", DefaultStorageDir)
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "eu-west-2")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("upload_max_bytes", 5<<20)

	v.SetDefault("audit_retention_days", 90)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("maintenance_schedule", "0 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			RequestTimeout: v.GetDuration("HTTP_REQUEST_TIMEOUT"),
			HSTSMaxAge:     v.GetInt("HSTS_MAX_AGE"),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Token: Token{
			Secret:           v.GetString("TOKEN_SECRET"),
			ExpiresInSeconds: v.GetInt("TOKEN_EXPIRES_IN_SECONDS"),
			Issuer:           v.GetString("TOKEN_ISSUER"),
		},
		Auth: Auth{
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			MinPasswordLength: v.GetInt("AUTH_MIN_PASSWORD_LENGTH"),
			MaxLoginAttempts:  v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:   v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:   v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		RateLimit: RateLimit{
			PerSecond: v.GetInt("RATE_LIMIT_PER_SECOND"),
			Burst:     v.GetInt("RATE_LIMIT_BURST"),
		},
		Redis: Redis{
			URL: v.GetString("REDIS_URL"),
		},
		Storage: Storage{
			Backend:        StorageBackend(v.GetString("STORAGE_BACKEND")),
			Dir:            v.GetString("STORAGE_DIR"),
			S3Bucket:       v.GetString("S3_BUCKET"),
			S3Region:       v.GetString("S3_REGION"),
			S3Endpoint:     v.GetString("S3_ENDPOINT"),
			S3AccessKey:    v.GetString("S3_ACCESS_KEY"),
			S3SecretKey:    v.GetString("S3_SECRET_KEY"),
			UploadMaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:             v.GetBool("TASKS_ENABLED"),
			Workers:             v.GetInt("TASK_WORKERS"),
			ReleaseAfter:        v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:     v.GetDuration("TASK_CLEANUP_INTERVAL"),
			MaintenanceSchedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
	}
}

// splitList turns "a, b,,c" into [a b c]. An empty string gives nil.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
