package db

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/filmorate/internal/config"
)

// Dialector picks the gorm dialect for cfg.DB.Driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.Driver {
	case "mysql", "":
		return mysql.Open(cfg.DB.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DB.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DB.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
}

// NewDB initializes the database connection from config, migrates the schema
// and seeds the fixed catalogs.
func NewDB(cfg *config.Config, level slog.Level) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  NewGormLogger(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := SeedCatalog(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate keeps the schema in sync with the row models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// NewGormLogger maps the application log level onto gorm's SQL logger:
// SQL statements are only printed at debug level.
func NewGormLogger(level slog.Level) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch {
	case level <= slog.LevelDebug:
		lvl = gormlogger.Info
	case level >= slog.LevelError:
		lvl = gormlogger.Error
	}
	return gormlogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
