package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/logging"
)

// Database is the local sqlite store. It only holds data the client owns:
// the AI report history, the activity log and, through SQL(), the UI
// session table.
type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string, log *slog.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	if err := db.AutoMigrate(&entities.AIReport{}, &entities.AuditEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logging.Component(log, logging.ComponentDatabase).Info("database initialized", "path", dbPath)

	return &Database{DB: db}, nil
}

// SQL exposes the underlying connection pool for stores that work below gorm.
func (d *Database) SQL() (*sql.DB, error) {
	return d.DB.DB()
}

// Ping checks that the database answers.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
