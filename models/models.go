package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" gorm:"size:150;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsAdmin      bool      `json:"-" gorm:"default:false"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	Recipes      []Recipe  `json:"-" gorm:"foreignKey:AuthorID"`
}

type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;uniqueIndex;not null"`
	Color string `json:"color" gorm:"size:7;not null"`
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex;not null"`
}

type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;index;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
}

type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AuthorID    uint      `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Text        string    `json:"text" gorm:"not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipe_cooking_time,cooking_time > 0"`
	Image       string    `json:"image" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Author      User               `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"tags" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []IngredientRecipe `json:"ingredients" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// IngredientRecipe is the association row carrying the quantity of one
// ingredient in one recipe.
type IngredientRecipe struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	RecipeID     uint       `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int        `json:"amount" gorm:"not null;check:chk_ingredient_amount,amount > 0"`
	Ingredient   Ingredient `json:"ingredient" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

type Follow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_follow_pair;check:chk_follow_not_self,user_id <> author_id"`
	AuthorID  uint      `json:"author_id" gorm:"not null;uniqueIndex:idx_follow_pair;index"`
	CreatedAt time.Time `json:"created_at"`

	User   User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_pair"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favorite_pair;index"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

type Cart struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_pair"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_cart_pair;index"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&IngredientRecipe{},
		&Follow{},
		&Favorite{},
		&Cart{},
	}
}

// Auth types
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Email     string `json:"email" binding:"required" validate:"required,email,max=254"`
	Username  string `json:"username" binding:"required" validate:"required,min=3,max=150"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" binding:"required" validate:"required,min=6,max=150"`
}

type AuthResponse struct {
	Token string `json:"auth_token"`
}

// Search types
type RecipeFilters struct {
	AuthorID         uint     `form:"author"`
	Tags             []string `form:"tags"`
	IsFavorited      bool     `form:"-"`
	IsInShoppingCart bool     `form:"-"`
}
