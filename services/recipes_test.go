package services

import (
	"context"
	"errors"
	"testing"

	"foodgram-backend/apperr"
	"foodgram-backend/database/dbtest"
	"foodgram-backend/identity"
	"foodgram-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecipeInputValidate(t *testing.T) {
	valid := func() RecipeInput {
		return RecipeInput{
			Name: "Soup", Text: "Boil.", CookingTime: 5,
			Tags:        []uint{1},
			Ingredients: []IngredientAmount{{ID: 1, Amount: 10}, {ID: 2, Amount: 1}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*RecipeInput)
		want   string
	}{
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = nil }, "no ingredients provided"},
		{"no tags", func(in *RecipeInput) { in.Tags = []uint{} }, "no tag selected"},
		{"zero cooking time", func(in *RecipeInput) { in.CookingTime = 0 }, "cooking time must be greater than 0"},
		{"negative cooking time", func(in *RecipeInput) { in.CookingTime = -3 }, "cooking time must be greater than 0"},
		{"repeated ingredient", func(in *RecipeInput) {
			in.Ingredients = append(in.Ingredients, IngredientAmount{ID: 1, Amount: 5})
		}, "ingredients must not repeat"},
		{"zero amount", func(in *RecipeInput) { in.Ingredients[1].Amount = 0 }, "ingredient amount must be greater than 0"},
		{"ingredients checked before tags", func(in *RecipeInput) {
			in.Ingredients = nil
			in.Tags = nil
			in.CookingTime = 0
		}, "no ingredients provided"},
		{"tags checked before cooking time", func(in *RecipeInput) {
			in.Tags = nil
			in.CookingTime = 0
		}, "no tag selected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			err := in.Validate()
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Equal(t, tt.want, apperr.Message(err))
		})
	}

	assert.NoError(t, valid().Validate())
}

func TestCreatePersistsExactIngredientSet(t *testing.T) {
	f := newFixture(t)
	in := f.input()
	in.Tags = []uint{f.lunch.ID, f.dinner.ID}

	recipe, err := f.recipes.Create(as(f.author), in)
	require.NoError(t, err)

	assert.Equal(t, f.author.ID, recipe.AuthorID)
	assert.Equal(t, "alice", recipe.Author.Username)
	assert.Equal(t, map[uint]int{f.flour.ID: 200, f.milk.ID: 300}, amounts(recipe))
	assert.ElementsMatch(t, []uint{f.lunch.ID, f.dinner.ID}, tagIDs(recipe))
	assert.Equal(t, "/uploads/1.png", recipe.Image)
	assert.Equal(t, "flour", recipe.Ingredients[0].Ingredient.Name)
}

func TestCreateRejectsInvalidPayloadBeforePersisting(t *testing.T) {
	f := newFixture(t)
	payloads := map[string]func(*RecipeInput){
		"empty ingredients": func(in *RecipeInput) { in.Ingredients = nil },
		"empty tags":        func(in *RecipeInput) { in.Tags = nil },
		"cooking time":      func(in *RecipeInput) { in.CookingTime = 0 },
		"duplicates": func(in *RecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: f.flour.ID, Amount: 1}, {ID: f.flour.ID, Amount: 2}}
		},
		"amount":             func(in *RecipeInput) { in.Ingredients[0].Amount = -1 },
		"unknown ingredient": func(in *RecipeInput) { in.Ingredients[0].ID = 9999 },
		"unknown tag":        func(in *RecipeInput) { in.Tags = []uint{9999} },
		"missing name":       func(in *RecipeInput) { in.Name = "" },
		"missing image":      func(in *RecipeInput) { in.Image = "" },
		"not an image":       func(in *RecipeInput) { in.Image = "data:image/png;base64,aGVsbG8=" },
	}
	for name, mutate := range payloads {
		t.Run(name, func(t *testing.T) {
			in := f.input()
			mutate(&in)
			_, err := f.recipes.Create(as(f.author), in)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation), err.Error())
		})
	}

	assert.Zero(t, f.count(t, &models.Recipe{}))
	assert.Zero(t, f.count(t, &models.IngredientRecipe{}))
	assert.Empty(t, f.images.saved)
}

func TestCreateUnknownIngredientMessage(t *testing.T) {
	f := newFixture(t)
	in := f.input()
	in.Ingredients[1].ID = 4242

	_, err := f.recipes.Create(as(f.author), in)
	assert.Equal(t, "ingredient 4242 does not exist", apperr.Message(err))
}

func TestCreateRequiresAuthentication(t *testing.T) {
	f := newFixture(t)
	_, err := f.recipes.Create(context.Background(), f.input())
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func failIngredientInserts(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_ingredient_rows", func(tx *gorm.DB) {
		if tx.Statement.Table == "ingredient_recipes" {
			_ = tx.AddError(errors.New("injected failure"))
		}
	})
	require.NoError(t, err)
}

func TestCreateIsAtomic(t *testing.T) {
	f := newFixture(t)
	failIngredientInserts(t, f.db)

	_, err := f.recipes.Create(as(f.author), f.input())
	require.Error(t, err)

	assert.Zero(t, f.count(t, &models.Recipe{}), "recipe row must roll back with its ingredients")
	assert.Zero(t, f.count(t, &models.IngredientRecipe{}))
}

func TestUpdateReplacesIngredientAndTagSets(t *testing.T) {
	f := newFixture(t)
	created, err := f.recipes.Create(as(f.author), f.input())
	require.NoError(t, err)

	in := f.input()
	in.Name = "Omelette"
	in.Image = ""
	in.Tags = []uint{f.dinner.ID}
	in.Ingredients = []IngredientAmount{{ID: f.eggs.ID, Amount: 3}, {ID: f.milk.ID, Amount: 50}}

	updated, err := f.recipes.Update(as(f.author), created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Omelette", updated.Name)
	assert.Equal(t, created.Image, updated.Image, "empty image keeps the stored one")
	assert.Equal(t, map[uint]int{f.eggs.ID: 3, f.milk.ID: 50}, amounts(updated))
	assert.Equal(t, []uint{f.dinner.ID}, tagIDs(updated))
	assert.Equal(t, int64(2), f.count(t, &models.IngredientRecipe{}))
}

func TestUpdateFailureKeepsPreviousSet(t *testing.T) {
	f := newFixture(t)
	created, err := f.recipes.Create(as(f.author), f.input())
	require.NoError(t, err)

	failIngredientInserts(t, f.db)
	in := f.input()
	in.Name = "Changed"
	in.Ingredients = []IngredientAmount{{ID: f.eggs.ID, Amount: 1}}
	_, err = f.recipes.Update(as(f.author), created.ID, in)
	require.Error(t, err)

	reloaded, err := f.recipes.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", reloaded.Name)
	assert.Equal(t, map[uint]int{f.flour.ID: 200, f.milk.ID: 300}, amounts(reloaded))
}

func TestUpdateAndDeletePermissions(t *testing.T) {
	f := newFixture(t)
	created, err := f.recipes.Create(as(f.author), f.input())
	require.NoError(t, err)

	mallory := dbtest.CreateUser(t, f.db, "mallory")
	_, err = f.recipes.Update(as(mallory), created.ID, f.input())
	assert.True(t, apperr.Is(err, apperr.KindPermissionDenied))
	assert.True(t, apperr.Is(f.recipes.Delete(as(mallory), created.ID), apperr.KindPermissionDenied))

	admin := identity.WithRequester(context.Background(), identity.Requester{UserID: mallory.ID, IsAdmin: true})
	in := f.input()
	in.Image = ""
	in.Name = "Moderated"
	updated, err := f.recipes.Update(admin, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Moderated", updated.Name)

	_, err = f.recipes.Update(as(f.author), 9999, f.input())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteRemovesDependents(t *testing.T) {
	f := newFixture(t)
	created, err := f.recipes.Create(as(f.author), f.input())
	require.NoError(t, err)

	bob := dbtest.CreateUser(t, f.db, "bob")
	require.NoError(t, f.db.Create(&models.Favorite{UserID: bob.ID, RecipeID: created.ID}).Error)
	require.NoError(t, f.db.Create(&models.Cart{UserID: bob.ID, RecipeID: created.ID}).Error)

	require.NoError(t, f.recipes.Delete(as(f.author), created.ID))

	assert.Zero(t, f.count(t, &models.Recipe{}))
	assert.Zero(t, f.count(t, &models.IngredientRecipe{}))
	assert.Zero(t, f.count(t, &models.Favorite{}))
	assert.Zero(t, f.count(t, &models.Cart{}))
	var links int64
	require.NoError(t, f.db.Table("recipe_tags").Count(&links).Error)
	assert.Zero(t, links)

	_, err = f.recipes.Get(context.Background(), created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	bob := dbtest.CreateUser(t, f.db, "bob")
	soup := dbtest.CreateRecipe(t, f.db, f.author, "soup", []models.Tag{f.lunch}, map[uint]int{f.milk.ID: 1})
	stew := dbtest.CreateRecipe(t, f.db, f.author, "stew", []models.Tag{f.dinner}, map[uint]int{f.flour.ID: 1})
	dbtest.CreateRecipe(t, f.db, bob, "salad", []models.Tag{f.lunch, f.dinner}, map[uint]int{f.eggs.ID: 1})
	require.NoError(t, f.db.Create(&models.Favorite{UserID: bob.ID, RecipeID: soup.ID}).Error)
	require.NoError(t, f.db.Create(&models.Cart{UserID: bob.ID, RecipeID: stew.ID}).Error)

	page := Page{Number: 1, Size: 10}
	names := func(ctx context.Context, filters models.RecipeFilters) []string {
		recipes, total, err := f.recipes.List(ctx, filters, page)
		require.NoError(t, err)
		assert.Equal(t, int64(len(recipes)), total)
		out := make([]string, len(recipes))
		for i, r := range recipes {
			out[i] = r.Name
		}
		return out
	}

	anon := context.Background()
	assert.Equal(t, []string{"salad", "stew", "soup"}, names(anon, models.RecipeFilters{}))
	assert.Equal(t, []string{"stew", "soup"}, names(anon, models.RecipeFilters{AuthorID: f.author.ID}))
	assert.Equal(t, []string{"salad", "soup"}, names(anon, models.RecipeFilters{Tags: []string{"lunch"}}))
	assert.Equal(t, []string{"salad", "stew", "soup"}, names(anon, models.RecipeFilters{Tags: []string{"lunch", "dinner"}}))
	assert.Equal(t, []string{"soup"}, names(as(bob), models.RecipeFilters{IsFavorited: true}))
	assert.Equal(t, []string{"stew"}, names(as(bob), models.RecipeFilters{IsInShoppingCart: true}))
	assert.Empty(t, names(anon, models.RecipeFilters{IsFavorited: true}))
	assert.Empty(t, names(as(f.author), models.RecipeFilters{IsInShoppingCart: true}))

	recipes, total, err := f.recipes.List(anon, models.RecipeFilters{}, Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, recipes, 1)
	assert.Equal(t, soup.ID, recipes[0].ID)
}
