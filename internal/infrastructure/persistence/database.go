package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sharadhiadiga/Elint/internal/infrastructure/config"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is an open ledger database: the GORM handle used by repositories
// and the pool underneath it.
type Database struct {
	DB   *gorm.DB
	pool *sql.DB
}

// Open connects to PostgreSQL, sizes the pool from cfg and waits for the
// first ping. SQL is reported through gormLogger.
func Open(ctx context.Context, cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig(gormLogger))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db, err := wrap(gdb)
	if err != nil {
		return nil, err
	}
	configurePool(db.pool, cfg)

	if err := db.PingContext(ctx); err != nil {
		_ = db.pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func wrap(gdb *gorm.DB) (*Database, error) {
	pool, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}
	return &Database{DB: gdb, pool: pool}, nil
}

func configurePool(pool *sql.DB, cfg *config.DatabaseConfig) {
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

// GormConfig returns the GORM settings shared by every connection.
// Driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig(gormLogger logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

// AutoMigrate creates or updates every ledger table from the models.
// Production schemas are managed by the SQL migrations; this is for tests
// and throwaway databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// SQL returns the connection pool, for health checks and pool metrics
func (d *Database) SQL() *sql.DB {
	return d.pool
}

// PingContext reports whether the database is reachable
func (d *Database) PingContext(ctx context.Context) error {
	return d.pool.PingContext(ctx)
}

// Close closes the pool
func (d *Database) Close() error {
	return d.pool.Close()
}
