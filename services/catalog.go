package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram-backend/apperr"
	"foodgram-backend/models"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"
)

const defaultCatalogCacheSize = 4096

// Catalog serves the read-only tag and ingredient reference data. Ingredients
// never change once imported, so lookups by id are cached.
type Catalog struct {
	db          *gorm.DB
	ingredients *lru.Cache[uint, models.Ingredient]
}

func NewCatalog(db *gorm.DB, cacheSize int) (*Catalog, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCatalogCacheSize
	}
	cache, err := lru.New[uint, models.Ingredient](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("ingredient cache: %w", err)
	}
	return &Catalog{db: db, ingredients: cache}, nil
}

func (c *Catalog) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (c *Catalog) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := c.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag %d: %w", id, err)
	}
	return &tag, nil
}

// SearchIngredients returns ingredients whose name starts with prefix,
// ignoring case. An empty prefix lists the whole catalog.
func (c *Catalog) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	q := c.db.WithContext(ctx).Order("name")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}
	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	return ingredients, nil
}

func (c *Catalog) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	found, err := c.Ingredients(ctx, []uint{id})
	if err != nil {
		return nil, err
	}
	ing, ok := found[id]
	if !ok {
		return nil, apperr.NotFound("ingredient not found")
	}
	return &ing, nil
}

// Ingredients resolves ids to catalog rows; ids that do not exist are
// absent from the result.
func (c *Catalog) Ingredients(ctx context.Context, ids []uint) (map[uint]models.Ingredient, error) {
	found := make(map[uint]models.Ingredient, len(ids))
	var missing []uint
	for _, id := range ids {
		if ing, ok := c.ingredients.Get(id); ok {
			found[id] = ing
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return found, nil
	}

	var rows []models.Ingredient
	if err := c.db.WithContext(ctx).Where("id IN ?", missing).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	for _, ing := range rows {
		c.ingredients.Add(ing.ID, ing)
		found[ing.ID] = ing
	}
	return found, nil
}

// Tags resolves ids to tags, failing validation on the first unknown id.
func (c *Catalog) Tags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var rows []models.Tag
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	byID := make(map[uint]models.Tag, len(rows))
	for _, tag := range rows {
		byID[tag.ID] = tag
	}
	tags := make([]models.Tag, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		tag, ok := byID[id]
		if !ok {
			return nil, apperr.Validationf("tag %d does not exist", id)
		}
		if !seen[id] {
			seen[id] = true
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
