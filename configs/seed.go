package configs

import (
	"fmt"
	"log/slog"

	"github.com/PabloUrbano2000/little-lemon-api/entity"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultCategories = []entity.Category{
	{Slug: "appetizers", Title: "Appetizers"},
	{Slug: "main-courses", Title: "Main Courses"},
	{Slug: "desserts", Title: "Desserts"},
	{Slug: "drinks", Title: "Drinks"},
}

// SeedGroups makes sure both role groups exist.
func SeedGroups(database *gorm.DB) error {
	for _, name := range []string{entity.GroupManager, entity.GroupDeliveryCrew} {
		if err := database.FirstOrCreate(&entity.Group{}, entity.Group{Name: name}).Error; err != nil {
			return fmt.Errorf("seed group %q: %w", name, err)
		}
	}
	return nil
}

func SeedCategories(database *gorm.DB) error {
	for _, c := range defaultCategories {
		if err := database.Where(entity.Category{Slug: c.Slug}).
			Attrs(entity.Category{Title: c.Title}).
			FirstOrCreate(&entity.Category{}).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", c.Slug, err)
		}
	}
	return nil
}

// SeedAdmin creates the first manager from ADMIN_USERNAME/ADMIN_PASSWORD.
// Groups must already be seeded.
func SeedAdmin(database *gorm.DB, cfg *Config, log *slog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Info("skip seeding admin: ADMIN_USERNAME/ADMIN_PASSWORD not set")
		return nil
	}

	var count int64
	if err := database.Model(&entity.User{}).Where("username = ?", cfg.AdminUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("admin already exists", "username", cfg.AdminUsername)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	var manager entity.Group
	if err := database.Where("name = ?", entity.GroupManager).First(&manager).Error; err != nil {
		return fmt.Errorf("load manager group: %w", err)
	}

	admin := entity.User{
		Username:  cfg.AdminUsername,
		Password:  string(hash),
		FirstName: "Admin",
		Groups:    []entity.Group{manager},
	}
	return database.Create(&admin).Error
}

func Seed(database *gorm.DB, cfg *Config, log *slog.Logger) error {
	if err := SeedGroups(database); err != nil {
		return err
	}
	if err := SeedCategories(database); err != nil {
		return err
	}
	return SeedAdmin(database, cfg, log)
}
