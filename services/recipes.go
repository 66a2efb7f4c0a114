package services

import (
	"context"
	"errors"
	"fmt"

	"foodgram-backend/apperr"
	"foodgram-backend/identity"
	"foodgram-backend/metrics"
	"foodgram-backend/models"
	"foodgram-backend/storage"
	"foodgram-backend/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is the writable shape of a recipe. Image is a base64 data URI;
// on update an empty Image keeps the current one.
type RecipeInput struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time"`
	Tags        []uint             `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
	Image       string             `json:"image"`
}

// Validate applies the composition rules in a fixed order and reports the
// first one that fails.
func (in RecipeInput) Validate() error {
	if len(in.Ingredients) == 0 {
		return apperr.Validation("no ingredients provided")
	}
	if len(in.Tags) == 0 {
		return apperr.Validation("no tag selected")
	}
	if in.CookingTime <= 0 {
		return apperr.Validation("cooking time must be greater than 0")
	}
	seen := make(map[uint]bool, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if seen[item.ID] {
			return apperr.Validation("ingredients must not repeat")
		}
		seen[item.ID] = true
		if item.Amount <= 0 {
			return apperr.Validation("ingredient amount must be greater than 0")
		}
	}
	return nil
}

type RecipeService struct {
	db      *gorm.DB
	catalog *Catalog
	images  storage.ImageStore
}

func NewRecipeService(db *gorm.DB, catalog *Catalog, images storage.ImageStore) *RecipeService {
	return &RecipeService{db: db, catalog: catalog, images: images}
}

// Create validates in and stores the recipe, its ingredient amounts and its
// tags in one transaction, authored by the requester.
func (s *RecipeService) Create(ctx context.Context, in RecipeInput) (*models.Recipe, error) {
	req := identity.FromContext(ctx)
	if req.Anonymous() {
		return nil, apperr.Unauthenticated("authentication required")
	}

	tags, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	if in.Image == "" {
		return nil, apperr.Validation("image is required")
	}
	imageURL, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    req.UserID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		Image:       imageURL,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		return writeComposition(tx, &recipe, in.Ingredients, tags)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRecipeWrite("create")
	return s.Get(ctx, recipe.ID)
}

// Update replaces every writable field of the recipe. The ingredient and
// tag sets are replaced as a whole, never merged.
func (s *RecipeService) Update(ctx context.Context, id uint, in RecipeInput) (*models.Recipe, error) {
	req := identity.FromContext(ctx)
	if req.Anonymous() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	recipe, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(req, recipe) {
		return nil, apperr.PermissionDenied("only the author can change this recipe")
	}

	tags, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	imageURL := recipe.Image
	if in.Image != "" {
		if imageURL, err = s.saveImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(recipe).Omit(clause.Associations).Updates(map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
			"image":        imageURL,
		}).Error
		if err != nil {
			return fmt.Errorf("update recipe %d: %w", id, err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientRecipe{}).Error; err != nil {
			return fmt.Errorf("clear ingredients of recipe %d: %w", id, err)
		}
		return writeComposition(tx, recipe, in.Ingredients, tags)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRecipeWrite("update")
	return s.Get(ctx, recipe.ID)
}

func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	req := identity.FromContext(ctx)
	if req.Anonymous() {
		return apperr.Unauthenticated("authentication required")
	}
	recipe, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(req, recipe) {
		return apperr.PermissionDenied("only the author can delete this recipe")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{&models.IngredientRecipe{}, &models.Favorite{}, &models.Cart{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(dependent).Error; err != nil {
				return fmt.Errorf("delete recipe %d dependents: %w", id, err)
			}
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("clear tags of recipe %d: %w", id, err)
		}
		if err := tx.Delete(recipe).Error; err != nil {
			return fmt.Errorf("delete recipe %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.RecordRecipeWrite("delete")
	return nil
}

// Get loads a recipe with its author, tags and ingredient amounts.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := withDetails(s.db.WithContext(ctx)).First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// List returns one page of recipes matching filters, newest first, and the
// total number of matches.
func (s *RecipeService) List(ctx context.Context, filters models.RecipeFilters, page Page) ([]models.Recipe, int64, error) {
	req := identity.FromContext(ctx)
	q := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filters.AuthorID != 0 {
		q = q.Where("author_id = ?", filters.AuthorID)
	}
	if len(filters.Tags) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filters.Tags)
		q = q.Where("id IN (?)", tagged)
	}
	if filters.IsFavorited || filters.IsInShoppingCart {
		if req.Anonymous() {
			return []models.Recipe{}, 0, nil
		}
	}
	if filters.IsFavorited {
		q = q.Where("id IN (?)", s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", req.UserID))
	}
	if filters.IsInShoppingCart {
		q = q.Where("id IN (?)", s.db.Model(&models.Cart{}).Select("recipe_id").Where("user_id = ?", req.UserID))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := withDetails(q).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

// prepare runs shape and composition checks, then confirms every referenced
// ingredient and tag exists. It must run outside any open transaction.
func (s *RecipeService) prepare(ctx context.Context, in RecipeInput) ([]models.Tag, error) {
	if err := validation.ValidateStruct(in); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ids := make([]uint, len(in.Ingredients))
	for i, item := range in.Ingredients {
		ids[i] = item.ID
	}
	found, err := s.catalog.Ingredients(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, apperr.Validationf("ingredient %d does not exist", id)
		}
	}
	return s.catalog.Tags(ctx, in.Tags)
}

func (s *RecipeService) saveImage(ctx context.Context, encoded string) (string, error) {
	data, err := storage.DecodeDataURI(encoded)
	if err != nil {
		return "", err
	}
	if _, _, err := storage.Sniff(data); err != nil {
		return "", err
	}
	url, err := s.images.Save(ctx, data)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return url, nil
}

func (s *RecipeService) find(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("find recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// writeComposition inserts the ingredient amounts and replaces the tag set.
func writeComposition(tx *gorm.DB, recipe *models.Recipe, items []IngredientAmount, tags []models.Tag) error {
	rows := make([]models.IngredientRecipe, len(items))
	for i, item := range items {
		rows[i] = models.IngredientRecipe{RecipeID: recipe.ID, IngredientID: item.ID, Amount: item.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return fmt.Errorf("store ingredients of recipe %d: %w", recipe.ID, err)
	}
	if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("store tags of recipe %d: %w", recipe.ID, err)
	}
	return nil
}

func withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient")
}

func canModify(req identity.Requester, recipe *models.Recipe) bool {
	return req.IsAdmin || req.UserID == recipe.AuthorID
}
