package database

import (
	"errors"
	"fmt"
	"strings"

	"foodgram-backend/config"
	"foodgram-backend/logging"
	"foodgram-backend/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pgUniqueViolation = "23505"

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err came from a unique index rejecting
// an insert, for any of the drivers the service runs on.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var defaultTags = []models.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

// SeedTags inserts the default tags that are not present yet.
func SeedTags(db *gorm.DB) error {
	for _, tag := range defaultTags {
		tag := tag
		var count int64
		if err := db.Model(&models.Tag{}).Where("slug = ?", tag.Slug).Count(&count).Error; err != nil {
			return fmt.Errorf("seed tag %s: %w", tag.Slug, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&tag).Error; err != nil && !IsUniqueViolation(err) {
			return fmt.Errorf("seed tag %s: %w", tag.Slug, err)
		}
		logging.Info().Str("slug", tag.Slug).Msg("default tag created")
	}
	return nil
}
