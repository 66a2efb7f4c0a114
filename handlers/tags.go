package handlers

import (
	"net/http"

	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	Catalog *services.Catalog
}

func NewTagHandler(catalog *services.Catalog) *TagHandler {
	return &TagHandler{Catalog: catalog}
}

func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.Catalog.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := idParam(c, "id", "tag")
	if !ok {
		return
	}
	tag, err := h.Catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
