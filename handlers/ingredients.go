package handlers

import (
	"net/http"

	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

type IngredientHandler struct {
	Catalog *services.Catalog
}

func NewIngredientHandler(catalog *services.Catalog) *IngredientHandler {
	return &IngredientHandler{Catalog: catalog}
}

// GetIngredients lists the catalog, narrowed by a ?name= prefix.
func (h *IngredientHandler) GetIngredients(c *gin.Context) {
	ingredients, err := h.Catalog.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := idParam(c, "id", "ingredient")
	if !ok {
		return
	}
	ingredient, err := h.Catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
