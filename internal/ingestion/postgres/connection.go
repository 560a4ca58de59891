// Package postgres provides the default SquadSource/FixtureSource adapters
// for the Horizon Planner: gorm-backed readers over a Postgres schema,
// kept behind planner-defined interfaces so ingestion stays swappable.
package postgres

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps *gorm.DB so callers outside this package never import gorm
// directly.
type DB struct {
	*gorm.DB
}

// ConnectionConfig mirrors the pool tuning knobs used across the rest of
// the stack; the planner's ingestion connection gets its own modest pool
// since it is read-mostly and called once per plan_horizon invocation.
type ConnectionConfig struct {
	DatabaseURL     string
	IsDevelopment   bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// NewConnection opens a pooled connection for the horizon-planner ingestion
// schema.
func NewConnection(databaseURL string, isDevelopment bool) (*DB, error) {
	return NewConnectionWithConfig(ConnectionConfig{
		DatabaseURL:     databaseURL,
		IsDevelopment:   isDevelopment,
		MaxIdleConns:    5,
		MaxOpenConns:    20,
		ConnMaxLifetime: time.Hour,
	})
}

// NewConnectionWithConfig opens a connection with explicit pool tuning.
func NewConnectionWithConfig(config ConnectionConfig) (*DB, error) {
	logLevel := logger.Error
	if config.IsDevelopment {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(config.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ingestion database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping ingestion database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"max_idle_conns": config.MaxIdleConns,
		"max_open_conns": config.MaxOpenConns,
	}).Info("ingestion database connection established")

	return &DB{db}, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck pings the database, used by the health and readiness handlers
// in internal/api/handlers.
func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("ingestion database ping failed: %w", err)
	}
	return nil
}
