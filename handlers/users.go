package handlers

import (
	"net/http"
	"strconv"

	"foodgram-backend/config"
	"foodgram-backend/models"
	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users      *services.UserService
	Relations  *services.RelationService
	Presenter  *services.Presenter
	Pagination config.PaginationConfig
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	user, err := h.Users.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	page := pageFromQuery(c, h.Pagination)
	users, total, err := h.Users.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.Presenter.Users(c.Request.Context(), users)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(page, total, views))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id", "user")
	if !ok {
		return
	}
	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondUser(c, user)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.Users.Me(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondUser(c, user)
}

// GetSubscriptions lists followed authors; ?recipes_limit caps the recipe
// preview of each.
func (h *UserHandler) GetSubscriptions(c *gin.Context) {
	page := pageFromQuery(c, h.Pagination)
	ctx := c.Request.Context()

	subs, total, err := h.Users.Subscriptions(ctx, page, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.Presenter.Subscriptions(ctx, subs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(page, total, views))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := idParam(c, "id", "user")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	author, err := h.Relations.Follow(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	sub, err := h.Users.SubscriptionFor(ctx, *author, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.Presenter.Subscription(ctx, sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := idParam(c, "id", "user")
	if !ok {
		return
	}
	if err := h.Relations.Unfollow(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) respondUser(c *gin.Context, user *models.User) {
	view, err := h.Presenter.User(c.Request.Context(), *user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func recipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
