// Package testdb opens a migrated in-memory SQLite database and seeds the
// users, groups and menu items most tests need.
package testdb

import (
	"testing"

	"github.com/PabloUrbano2000/little-lemon-api/configs"
	"github.com/PabloUrbano2000/little-lemon-api/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, configs.SetupDatabase(db))
	require.NoError(t, configs.SeedGroups(db))
	return db
}

type Fixtures struct {
	Customer  entity.User
	Other     entity.User
	Manager   entity.User
	Delivery  entity.User
	Delivery2 entity.User

	Category entity.Category
	ItemA    entity.MenuItem // 10.00
	ItemB    entity.MenuItem // 5.00
}

// Seed creates two customers, a manager, two delivery crew members, one
// category and two menu items.
func Seed(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	f := &Fixtures{}

	f.Customer = User(t, db, "customer")
	f.Other = User(t, db, "other")
	f.Manager = User(t, db, "manager", entity.GroupManager)
	f.Delivery = User(t, db, "delivery", entity.GroupDeliveryCrew)
	f.Delivery2 = User(t, db, "delivery2", entity.GroupDeliveryCrew)

	f.Category = entity.Category{Slug: "main-courses", Title: "Main Courses"}
	require.NoError(t, db.Create(&f.Category).Error)

	f.ItemA = MenuItem(t, db, f.Category.ID, "Greek Salad", "10.00")
	f.ItemB = MenuItem(t, db, f.Category.ID, "Bruschetta", "5.00")
	return f
}

// Password is the password of every seeded user.
const Password = "password123"

// User creates a user in the given groups.
func User(t *testing.T, db *gorm.DB, username string, groups ...string) entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := entity.User{Username: username, Password: string(hash)}
	for _, name := range groups {
		var g entity.Group
		require.NoError(t, db.Where("name = ?", name).First(&g).Error)
		u.Groups = append(u.Groups, g)
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func MenuItem(t *testing.T, db *gorm.DB, categoryID uint, title, price string) entity.MenuItem {
	t.Helper()
	m := entity.MenuItem{
		Title:      title,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}
