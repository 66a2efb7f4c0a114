// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"foodgram-backend/database"
	"foodgram-backend/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh migrated database. It holds a single connection, so
// code under test must not query outside an open transaction while it runs.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    username,
		LastName:     "Tester",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func CreateIngredient(t testing.TB, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("create ingredient %s: %v", name, err)
	}
	return ing
}

func CreateTag(t testing.TB, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: "#000000", Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("create tag %s: %v", slug, err)
	}
	return tag
}

// CreateRecipe inserts a recipe directly, bypassing validation.
func CreateRecipe(t testing.TB, db *gorm.DB, author models.User, name string, tags []models.Tag, amounts map[uint]int) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        name + " text",
		CookingTime: 10,
		Image:       "/uploads/" + name + ".png",
		Tags:        tags,
	}
	for id, amount := range amounts {
		recipe.Ingredients = append(recipe.Ingredients, models.IngredientRecipe{IngredientID: id, Amount: amount})
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("create recipe %s: %v", name, err)
	}
	return recipe
}
