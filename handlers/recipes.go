package handlers

import (
	"bytes"
	"context"
	"net/http"

	"foodgram-backend/config"
	"foodgram-backend/models"
	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	Recipes      *services.RecipeService
	Relations    *services.RelationService
	ShoppingList *services.ShoppingListService
	Presenter    *services.Presenter
	Pagination   config.PaginationConfig
}

func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	var filters models.RecipeFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBadBody(c, err)
		return
	}
	var err error
	if filters.IsFavorited, err = queryFlag(c, "is_favorited"); err != nil {
		respondError(c, err)
		return
	}
	if filters.IsInShoppingCart, err = queryFlag(c, "is_in_shopping_cart"); err != nil {
		respondError(c, err)
		return
	}
	page := pageFromQuery(c, h.Pagination)
	ctx := c.Request.Context()

	recipes, total, err := h.Recipes.List(ctx, filters, page)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.Presenter.Recipes(ctx, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(page, total, views))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "id", "recipe")
	if !ok {
		return
	}
	recipe, err := h.Recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var input services.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, err)
		return
	}
	recipe, err := h.Recipes.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c, "id", "recipe")
	if !ok {
		return
	}
	var input services.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, err)
		return
	}
	recipe, err := h.Recipes.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c, "id", "recipe")
	if !ok {
		return
	}
	if err := h.Recipes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMarker(c, h.Relations.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMarker(c, h.Relations.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMarker(c, h.Relations.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMarker(c, h.Relations.RemoveFromCart)
}

// DownloadShoppingCart sends the aggregated cart as a PDF attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	var buf bytes.Buffer
	contentType, err := h.ShoppingList.Export(c.Request.Context(), &buf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+services.ShoppingListFilename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *RecipeHandler) addMarker(c *gin.Context, add func(ctx context.Context, id uint) (*models.Recipe, error)) {
	id, ok := idParam(c, "id", "recipe")
	if !ok {
		return
	}
	recipe, err := add(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.ShortRecipe(*recipe))
}

func (h *RecipeHandler) removeMarker(c *gin.Context, remove func(ctx context.Context, id uint) error) {
	id, ok := idParam(c, "id", "recipe")
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	view, err := h.Presenter.Recipe(c.Request.Context(), *recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, view)
}
