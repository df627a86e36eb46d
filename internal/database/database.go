package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// NewDatabase opens a sqlite database at dbPath. ":memory:" is accepted.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(config.Database{Driver: config.DatabaseDriverSQLite, Path: dbPath})
}

// Open connects to the configured backend and migrates all entities.
func Open(cfg config.Database) (*Database, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		// Bound parameters include password hashes, keep them out of the log.
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DatabaseDriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
		db, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	case config.DatabaseDriverSQLite, "":
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.Path)), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver != config.DatabaseDriverPostgres {
		// A single connection serializes writers and keeps ":memory:" databases shared.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully (%s)", driverName(cfg.Driver))

	return &Database{DB: db, Driver: cfg.Driver}, nil
}

// Migrate creates or updates the schema for every stored entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Account{},
		&entities.ArchaeologistProfile{},
		&entities.CompanyProfile{},
		&entities.Excavation{},
		&entities.Thumbnail{},
		&entities.AuditEvent{},
	)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func sqliteDSN(path string) string {
	if path == "" {
		path = config.DefaultDatabasePath
	}
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

func driverName(d config.DatabaseDriver) string {
	if d == "" {
		return string(config.DatabaseDriverSQLite)
	}
	return string(d)
}
