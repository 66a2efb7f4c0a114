package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"foodgram-backend/apperr"
	"foodgram-backend/export"
	"foodgram-backend/identity"
	"foodgram-backend/metrics"
	"foodgram-backend/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const ShoppingListFilename = "shopping_cart.pdf"

// ShoppingItem is one aggregated line: the total amount of an ingredient
// across every recipe in the cart.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

func FormatLine(item ShoppingItem) string {
	return fmt.Sprintf("%s — %s — %d", item.Name, item.MeasurementUnit, item.Amount)
}

type Renderer interface {
	Render(w io.Writer, doc export.Document) error
	ContentType() string
}

type ShoppingListService struct {
	db       *gorm.DB
	locale   language.Tag
	title    string
	renderer Renderer
	now      func() time.Time
}

func NewShoppingListService(db *gorm.DB, locale, title string, renderer Renderer) *ShoppingListService {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &ShoppingListService{db: db, locale: tag, title: title, renderer: renderer, now: time.Now}
}

// Items sums the ingredient amounts of every recipe in the requester's cart,
// grouped by ingredient name and unit and ordered by name.
func (s *ShoppingListService) Items(ctx context.Context) ([]ShoppingItem, error) {
	req := identity.FromContext(ctx)
	if req.Anonymous() {
		return nil, apperr.Unauthenticated("authentication required")
	}

	inCart := s.db.Model(&models.Cart{}).Select("recipe_id").Where("user_id = ?", req.UserID)
	var items []ShoppingItem
	err := s.db.WithContext(ctx).
		Table("ingredient_recipes").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_recipes.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_recipes.ingredient_id").
		Where("ingredient_recipes.recipe_id IN (?)", inCart).
		Group("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	SortItems(items, s.locale)
	return items, nil
}

// Export renders the requester's shopping list into w and returns the
// content type of what was written.
func (s *ShoppingListService) Export(ctx context.Context, w io.Writer) (string, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = FormatLine(item)
	}
	doc := export.Document{Title: s.title, GeneratedAt: s.now(), Lines: lines}
	if err := s.renderer.Render(w, doc); err != nil {
		return "", err
	}
	metrics.ShoppingListExports.Inc()
	return s.renderer.ContentType(), nil
}

// SortItems orders items by name using the collation rules of locale, then
// by unit. The order is total, so equal inputs always print the same way.
func SortItems(items []ShoppingItem, locale language.Tag) {
	// Collators keep internal buffers and cannot be shared across goroutines.
	c := collate.New(locale)
	sort.SliceStable(items, func(i, j int) bool {
		if cmp := c.CompareString(items[i].Name, items[j].Name); cmp != 0 {
			return cmp < 0
		}
		if cmp := c.CompareString(items[i].MeasurementUnit, items[j].MeasurementUnit); cmp != 0 {
			return cmp < 0
		}
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
}
