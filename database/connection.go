package database

import (
	"fmt"

	"blogapi/config"
	applog "blogapi/logger"
	"blogapi/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the store selected by cfg.DBDriver. Postgres is the
// production store; sqlite serves local development.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.DatabaseURL())
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(cfg.DBPath + "?_foreign_keys=on&_busy_timeout=5000")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := Open(dialector, gormLogLevel(applog.Level()))
	if err != nil {
		return nil, err
	}

	applog.InfoWithFields("Database connected successfully", applog.Fields{"driver": cfg.DBDriver})
	return db, nil
}

// Open is shared by Connect and the test helpers so both run with the same
// gorm configuration.
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	applog.Log.Info("Database migrated successfully")
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}
