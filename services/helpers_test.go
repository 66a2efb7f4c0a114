package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"foodgram-backend/database/dbtest"
	"foodgram-backend/identity"
	"foodgram-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 1x1 transparent PNG.
const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type memoryImages struct {
	mu    sync.Mutex
	saved [][]byte
}

func (m *memoryImages) Save(_ context.Context, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, data)
	return fmt.Sprintf("/uploads/%d.png", len(m.saved)), nil
}

func as(user models.User) context.Context {
	return identity.WithRequester(context.Background(), identity.Requester{UserID: user.ID, IsAdmin: user.IsAdmin})
}

type fixture struct {
	db      *gorm.DB
	images  *memoryImages
	recipes *RecipeService
	author  models.User
	flour   models.Ingredient
	milk    models.Ingredient
	eggs    models.Ingredient
	lunch   models.Tag
	dinner  models.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	catalog, err := NewCatalog(db, 16)
	require.NoError(t, err)
	images := &memoryImages{}
	return &fixture{
		db:      db,
		images:  images,
		recipes: NewRecipeService(db, catalog, images),
		author:  dbtest.CreateUser(t, db, "alice"),
		flour:   dbtest.CreateIngredient(t, db, "flour", "g"),
		milk:    dbtest.CreateIngredient(t, db, "milk", "ml"),
		eggs:    dbtest.CreateIngredient(t, db, "eggs", "pcs"),
		lunch:   dbtest.CreateTag(t, db, "Lunch", "lunch"),
		dinner:  dbtest.CreateTag(t, db, "Dinner", "dinner"),
	}
}

func (f *fixture) input() RecipeInput {
	return RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Tags:        []uint{f.lunch.ID},
		Ingredients: []IngredientAmount{
			{ID: f.flour.ID, Amount: 200},
			{ID: f.milk.ID, Amount: 300},
		},
		Image: pixelPNG,
	}
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func amounts(recipe *models.Recipe) map[uint]int {
	out := make(map[uint]int, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		out[item.IngredientID] = item.Amount
	}
	return out
}

func tagIDs(recipe *models.Recipe) []uint {
	out := make([]uint, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		out = append(out, tag.ID)
	}
	return out
}
