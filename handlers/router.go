package handlers

import (
	"strings"

	"foodgram-backend/config"
	"foodgram-backend/export"
	"foodgram-backend/middleware"
	"foodgram-backend/services"
	"foodgram-backend/storage"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	DB     *gorm.DB
	Config *config.Config
	Images storage.ImageStore
	Tokens *utils.TokenManager
	// Renderer defaults to the PDF renderer built from Config.Export.
	Renderer services.Renderer
}

func NewRouter(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config

	catalog, err := services.NewCatalog(deps.DB, 0)
	if err != nil {
		return nil, err
	}
	presenter := services.NewPresenter(services.NewGormMembership(deps.DB))
	relations := services.NewRelationService(deps.DB)
	users := services.NewUserService(deps.DB)

	renderer := deps.Renderer
	if renderer == nil {
		renderer = export.NewPDFRenderer(export.Options{FontPath: cfg.Export.FontPath, LinesPerPage: cfg.Export.LinesPerPage})
	}

	tagHandler := NewTagHandler(catalog)
	ingredientHandler := NewIngredientHandler(catalog)
	authHandler := NewAuthHandler(users, deps.Tokens)
	uploadHandler := NewUploadHandler(deps.Images)
	recipeHandler := &RecipeHandler{
		Recipes:      services.NewRecipeService(deps.DB, catalog, deps.Images),
		Relations:    relations,
		ShoppingList: services.NewShoppingListService(deps.DB, cfg.Export.Locale, cfg.Export.Title, renderer),
		Presenter:    presenter,
		Pagination:   cfg.Pagination,
	}
	userHandler := &UserHandler{
		Users:      users,
		Relations:  relations,
		Presenter:  presenter,
		Pagination: cfg.Pagination,
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Observe(),
		middleware.CORS(cfg.Server.CORSOrigin),
	)

	if cfg.Storage.Backend == "local" && strings.HasPrefix(cfg.Storage.PublicURL, "/") {
		router.Static(cfg.Storage.PublicURL, cfg.Storage.UploadDir)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.AuthMiddleware(deps.Tokens)

	api := router.Group("/api")
	api.Use(middleware.OptionalAuthMiddleware(deps.Tokens))
	{
		api.POST("/auth/token/login", authHandler.Login)
		api.POST("/auth/token/logout", requireAuth, authHandler.Logout)

		api.POST("/users", userHandler.Signup)
		api.GET("/users", userHandler.GetUsers)
		api.GET("/users/me", requireAuth, userHandler.GetMe)
		api.GET("/users/subscriptions", requireAuth, userHandler.GetSubscriptions)
		api.GET("/users/:id", userHandler.GetUser)
		api.POST("/users/:id/subscribe", requireAuth, userHandler.Subscribe)
		api.DELETE("/users/:id/subscribe", requireAuth, userHandler.Unsubscribe)

		api.GET("/tags", tagHandler.GetTags)
		api.GET("/tags/:id", tagHandler.GetTag)
		api.GET("/ingredients", ingredientHandler.GetIngredients)
		api.GET("/ingredients/:id", ingredientHandler.GetIngredient)

		api.GET("/recipes", recipeHandler.GetRecipes)
		api.POST("/recipes", requireAuth, recipeHandler.CreateRecipe)
		api.GET("/recipes/download_shopping_cart", requireAuth, recipeHandler.DownloadShoppingCart)
		api.GET("/recipes/:id", recipeHandler.GetRecipe)
		api.PUT("/recipes/:id", requireAuth, recipeHandler.UpdateRecipe)
		api.PATCH("/recipes/:id", requireAuth, recipeHandler.UpdateRecipe)
		api.DELETE("/recipes/:id", requireAuth, recipeHandler.DeleteRecipe)
		api.POST("/recipes/:id/favorite", requireAuth, recipeHandler.AddFavorite)
		api.DELETE("/recipes/:id/favorite", requireAuth, recipeHandler.RemoveFavorite)
		api.POST("/recipes/:id/shopping_cart", requireAuth, recipeHandler.AddToCart)
		api.DELETE("/recipes/:id/shopping_cart", requireAuth, recipeHandler.RemoveFromCart)

		api.POST("/upload", requireAuth, uploadHandler.UploadImage)
	}

	return router, nil
}
