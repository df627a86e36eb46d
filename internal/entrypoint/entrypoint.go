package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/accounts"
	auditrepo "github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/excavations"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/profiles"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/thumbnails"
	http_controllers "github.com/BeeNag/tiy-front-end-final-project-back-end/internal/http"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/obs"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/scheduler"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/storage"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Core is what every command needs: the database, token issuer and
// account service. The server adds the rest on top.
type Core struct {
	DB       *database.Database
	Tokens   *auth.Issuer
	Accounts *auth.Service

	closers []func() error
}

// NewCore opens the database and builds the token issuer. The issuer gets
// a Redis denylist when REDIS_URL is set and an in-process one otherwise.
func NewCore(cfg *config.Config) (*Core, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	core := &Core{DB: db}
	core.closers = append(core.closers, db.Close)

	var denylist auth.Denylist
	if cfg.Redis.URL != "" {
		redisDenylist, err := auth.NewRedisDenylist(cfg.Redis.URL)
		if err != nil {
			core.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		core.closers = append(core.closers, redisDenylist.Close)
		denylist = redisDenylist
		log.Printf("Token revocation: redis")
	} else {
		memDenylist := auth.NewMemoryDenylist(time.Minute)
		core.closers = append(core.closers, func() error { memDenylist.Stop(); return nil })
		denylist = memDenylist
		log.Printf("Token revocation: in-process (revocations are lost on restart)")
	}

	core.Tokens, err = auth.NewIssuer(cfg.Token, auth.WithDenylist(denylist))
	if err != nil {
		core.Close()
		return nil, err
	}
	core.Accounts = auth.NewService(accounts.NewRepository(db.DB), core.Tokens, cfg.Auth)
	return core, nil
}

// Close releases everything NewCore opened, last opened first.
func (c *Core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("Error during close: %v", err)
		}
	}
	c.closers = nil
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.HTTP.RequestTimeout + 15*time.Second,
		WriteTimeout:      cfg.HTTP.RequestTimeout + 15*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop taking requests before the queue and stores go away
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version, commit string) {
	log.Printf("Starting FreeArch v%s (%s)", version, commit)

	core, err := NewCore(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer core.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := obs.NewMetrics()
	metrics.SetBuildInfo(version, commit)

	auditService := audit.NewService(auditrepo.NewRepository(core.DB.DB))

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}
	uploads := storage.NewUploader(blobs, thumbnails.NewRepository(core.DB.DB), cfg.Storage.UploadMaxBytes)
	log.Printf("Upload storage: %s", cfg.Storage.Backend)

	loginLimiter := auth.NewRateLimiter(auth.RateLimitConfigFrom(cfg.Auth))
	defer loginLimiter.Stop()

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		queuePath := tasks.QueuePath(cfg.Database.Path)
		taskClient, err = tasks.NewClient(queuePath, tasks.ConfigFrom(cfg.Tasks, cfg.Audit))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()
		taskClient.RegisterMaintenance(auditService, uploads)
		taskClient.Start(ctx)
		log.Printf("Task queue at %s", queuePath)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Tasks.MaintenanceSchedule)
		if err := maintenance.Start(ctx); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
		if next := maintenance.NextRunTime(); next != nil {
			log.Printf("Next maintenance run at %s", next.Format(time.RFC3339))
		}
	} else {
		log.Printf("Task queue disabled, audit retention and orphan cleanup will not run")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Accounts:           core.Accounts,
		Tokens:             core.Tokens,
		Profiles:           profiles.NewRepository(core.DB.DB),
		Excavations:        excavations.NewRepository(core.DB.DB),
		Uploads:            uploads,
		Database:           core.DB,
		LoginLimiter:       loginLimiter,
		Audit:              auditService,
		Metrics:            metrics,
		RateLimitPerSecond: cfg.RateLimit.PerSecond,
		RateLimitBurst:     cfg.RateLimit.Burst,
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		HSTSMaxAge:         cfg.HTTP.HSTSMaxAge,
		TrustedProxies:     cfg.HTTP.TrustedProxies,
		Version:            version,
	})

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		cancel()
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
