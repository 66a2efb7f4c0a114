package services

import (
	"context"
	"errors"
	"fmt"

	"foodgram-backend/apperr"
	"foodgram-backend/database"
	"foodgram-backend/identity"
	"foodgram-backend/metrics"
	"foodgram-backend/models"

	"gorm.io/gorm"
)

type relation struct {
	name    string
	exists  string
	missing string
}

var (
	favoriteRelation = relation{name: "favorite", exists: "recipe is already in favorites", missing: "recipe is not in favorites"}
	cartRelation     = relation{name: "cart", exists: "recipe is already in the shopping cart", missing: "recipe is not in the shopping cart"}
	followRelation   = relation{name: "follow", exists: "already subscribed to this author", missing: "not subscribed to this author"}
)

// RelationService toggles the favorite, cart and follow markers of the
// requesting user.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

func (s *RelationService) AddFavorite(ctx context.Context, recipeID uint) (*models.Recipe, error) {
	req, recipe, err := s.recipeTarget(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	row := &models.Favorite{UserID: req.UserID, RecipeID: recipe.ID}
	if err := s.insert(ctx, favoriteRelation, row, "user_id = ? AND recipe_id = ?", req.UserID, recipe.ID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RelationService) RemoveFavorite(ctx context.Context, recipeID uint) error {
	req, recipe, err := s.recipeTarget(ctx, recipeID)
	if err != nil {
		return err
	}
	return s.remove(ctx, favoriteRelation, &models.Favorite{}, "user_id = ? AND recipe_id = ?", req.UserID, recipe.ID)
}

func (s *RelationService) AddToCart(ctx context.Context, recipeID uint) (*models.Recipe, error) {
	req, recipe, err := s.recipeTarget(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	row := &models.Cart{UserID: req.UserID, RecipeID: recipe.ID}
	if err := s.insert(ctx, cartRelation, row, "user_id = ? AND recipe_id = ?", req.UserID, recipe.ID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RelationService) RemoveFromCart(ctx context.Context, recipeID uint) error {
	req, recipe, err := s.recipeTarget(ctx, recipeID)
	if err != nil {
		return err
	}
	return s.remove(ctx, cartRelation, &models.Cart{}, "user_id = ? AND recipe_id = ?", req.UserID, recipe.ID)
}

// Follow subscribes the requester to authorID and returns the author.
func (s *RelationService) Follow(ctx context.Context, authorID uint) (*models.User, error) {
	req, author, err := s.authorTarget(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author.ID == req.UserID {
		metrics.RecordToggle(followRelation.name, "create", "rejected")
		return nil, apperr.Validation("cannot follow yourself")
	}
	row := &models.Follow{UserID: req.UserID, AuthorID: author.ID}
	if err := s.insert(ctx, followRelation, row, "user_id = ? AND author_id = ?", req.UserID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *RelationService) Unfollow(ctx context.Context, authorID uint) error {
	req, author, err := s.authorTarget(ctx, authorID)
	if err != nil {
		return err
	}
	return s.remove(ctx, followRelation, &models.Follow{}, "user_id = ? AND author_id = ?", req.UserID, author.ID)
}

func (s *RelationService) recipeTarget(ctx context.Context, recipeID uint) (identity.Requester, *models.Recipe, error) {
	req := identity.FromContext(ctx)
	if req.Anonymous() {
		return req, nil, apperr.Unauthenticated("authentication required")
	}
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return req, nil, apperr.NotFound("recipe not found")
		}
		return req, nil, fmt.Errorf("find recipe %d: %w", recipeID, err)
	}
	return req, &recipe, nil
}

func (s *RelationService) authorTarget(ctx context.Context, authorID uint) (identity.Requester, *models.User, error) {
	req := identity.FromContext(ctx)
	if req.Anonymous() {
		return req, nil, apperr.Unauthenticated("authentication required")
	}
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return req, nil, apperr.NotFound("user not found")
		}
		return req, nil, fmt.Errorf("find user %d: %w", authorID, err)
	}
	return req, &author, nil
}

// insert stores row unless the pair already exists. The unique index on the
// pair settles races between concurrent identical requests.
func (s *RelationService) insert(ctx context.Context, rel relation, row interface{}, query string, args ...interface{}) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(row).Where(query, args...).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s: %w", rel.name, err)
	}
	if count > 0 {
		metrics.RecordToggle(rel.name, "create", "conflict")
		return apperr.Conflict(rel.exists, nil)
	}

	if err := db.Create(row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			metrics.RecordToggle(rel.name, "create", "conflict")
			return apperr.Conflict(rel.exists, err)
		}
		return fmt.Errorf("create %s: %w", rel.name, err)
	}
	metrics.RecordToggle(rel.name, "create", "ok")
	return nil
}

func (s *RelationService) remove(ctx context.Context, rel relation, model interface{}, query string, args ...interface{}) error {
	res := s.db.WithContext(ctx).Where(query, args...).Delete(model)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", rel.name, res.Error)
	}
	if res.RowsAffected == 0 {
		metrics.RecordToggle(rel.name, "delete", "not_found")
		return apperr.NotFound(rel.missing)
	}
	metrics.RecordToggle(rel.name, "delete", "ok")
	return nil
}
