package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipe-catalog/backend/config"
)

// ErrNotConfigured is returned by a Provider without an opener
var ErrNotConfigured = errors.New("database not configured")

// Conn hands out the shared database handle
type Conn interface {
	Get(ctx context.Context) (*gorm.DB, error)
}

// Opener establishes a new database handle
type Opener func(ctx context.Context) (*gorm.DB, error)

// Provider owns the process-wide database handle. The handle is opened on
// first use and reused afterwards; a failed open is retried by the next caller.
type Provider struct {
	mu   sync.Mutex
	db   atomic.Pointer[gorm.DB]
	open Opener
}

// NewProvider creates a provider that opens its handle lazily
func NewProvider(open Opener) *Provider {
	return &Provider{open: open}
}

// FromDB wraps an already open handle
func FromDB(db *gorm.DB) *Provider {
	p := &Provider{}
	p.db.Store(db)
	return p
}

// Get returns the shared handle, opening it if needed
func (p *Provider) Get(ctx context.Context) (*gorm.DB, error) {
	if db := p.db.Load(); db != nil {
		return db, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if db := p.db.Load(); db != nil {
		return db, nil
	}
	if p.open == nil {
		return nil, ErrNotConfigured
	}

	db, err := p.open(ctx)
	if err != nil {
		return nil, err
	}
	p.db.Store(db)
	return db, nil
}

// Configured reports whether the provider can produce a handle
func (p *Provider) Configured() bool {
	return p.open != nil || p.db.Load() != nil
}

// HealthCheck checks if the database is accessible
func (p *Provider) HealthCheck(ctx context.Context) error {
	db, err := p.Get(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the handle if it was opened
func (p *Provider) Close() error {
	db := p.db.Load()
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewOpener returns an Opener for the configured driver
func NewOpener(cfg *config.Config) Opener {
	return func(ctx context.Context) (*gorm.DB, error) {
		return Open(ctx, cfg)
	}
}

// Open creates a new database connection
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		log.Info().Str("component", "database").
			Str("host", cfg.DBHost).Str("port", cfg.DBPort).Str("user", cfg.DBUser).
			Msg("connecting to postgres")
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		log.Info().Str("component", "database").Str("path", cfg.DBPath).Msg("opening sqlite")
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, GormConfig())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}

	// Set connection pool settings
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Info().Str("component", "database").Msg("successfully connected to database")
	return db, nil
}

// GormConfig is the gorm configuration shared by every connection. Foreign
// keys are not enforced since creator and saved-recipe references may dangle.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	}
}
