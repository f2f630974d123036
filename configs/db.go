package configs

import (
	"fmt"

	"github.com/PabloUrbano2000/little-lemon-api/entity"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

// ConnectionDB opens the database named by DB_DRIVER/DB_SOURCE and keeps it
// as the package-level handle.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBSource)
	case "postgres":
		dialector = postgres.Open(cfg.DBSource)
	case "mysql":
		dialector = mysql.Open(cfg.DBSource)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	db = database
	return database, nil
}

// SetupDatabase migrates the schema.
func SetupDatabase(database *gorm.DB) error {
	return database.AutoMigrate(
		&entity.Group{}, &entity.User{},
		&entity.Category{}, &entity.MenuItem{},
		&entity.CartLine{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.OutboxEvent{},
	)
}
