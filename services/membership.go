package services

import (
	"context"
	"fmt"

	"foodgram-backend/models"

	"gorm.io/gorm"
)

// MembershipChecker answers, for one user and a batch of ids, which of them
// carry a given marker. Each call costs one lookup however many ids it gets.
type MembershipChecker interface {
	FavoritedRecipes(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	CartRecipes(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	FollowedAuthors(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
}

type GormMembership struct {
	db *gorm.DB
}

func NewGormMembership(db *gorm.DB) *GormMembership {
	return &GormMembership{db: db}
}

func (m *GormMembership) FavoritedRecipes(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return m.lookup(ctx, &models.Favorite{}, "recipe_id", userID, recipeIDs)
}

func (m *GormMembership) CartRecipes(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return m.lookup(ctx, &models.Cart{}, "recipe_id", userID, recipeIDs)
}

func (m *GormMembership) FollowedAuthors(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	return m.lookup(ctx, &models.Follow{}, "author_id", userID, authorIDs)
}

func (m *GormMembership) lookup(ctx context.Context, model interface{}, column string, userID uint, ids []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(ids))
	if userID == 0 || len(ids) == 0 {
		return out, nil
	}
	var found []uint
	err := m.db.WithContext(ctx).
		Model(model).
		Where("user_id = ?", userID).
		Where(column+" IN ?", ids).
		Pluck(column, &found).Error
	if err != nil {
		return nil, fmt.Errorf("membership lookup on %s: %w", column, err)
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}
