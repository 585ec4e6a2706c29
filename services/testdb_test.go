package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tableside/models"
)

// setupTestDB opens a throwaway in-memory database with the same error
// translation the production connection uses.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Guest{},
		&models.MenuCategory{},
		&models.Dish{},
		&models.DishSnapshot{},
		&models.Order{},
	))
	return db
}

func seedGuest(t *testing.T, db *gorm.DB, tableNumber uint) *models.Guest {
	t.Helper()
	guest := models.Guest{Name: "Test Guest", TableNumber: tableNumber}
	require.NoError(t, db.Create(&guest).Error)
	return &guest
}

func seedDish(t *testing.T, db *gorm.DB, name string, price int) *models.Dish {
	t.Helper()
	dish := models.Dish{Name: name, Price: price, Status: models.DishStatusAvailable}
	require.NoError(t, db.Create(&dish).Error)
	return &dish
}
