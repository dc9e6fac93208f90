package database

import (
	"fmt"
	"time"

	"sacra/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options describes how to open the store.
type Options struct {
	Driver       string // postgres, mysql or sqlite
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	Logger       *logrus.Logger
	LogLevel     logger.LogLevel
}

// NewConnection opens the connection pool with GORM and migrates the schema.
func NewConnection(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(opts.Logger, opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns >= 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if pluginErr := db.Use(otelgorm.NewPlugin()); pluginErr != nil && opts.Logger != nil {
		opts.Logger.Warnf("db connected but failed to install otelgorm plugin: %v", pluginErr)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.Permission{},
		&model.Figurine{},
		&model.Sale{},
		&model.Payment{},
		&model.StockMovement{},
		&model.AuditLog{},
	)
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "postgresql", "":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func newGormLogger(logg *logrus.Logger, level logger.LogLevel) logger.Interface {
	if logg == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	if level == 0 {
		level = logger.Warn
	}
	return logger.New(logg, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
