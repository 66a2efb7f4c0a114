package services

import (
	"context"

	"foodgram-backend/identity"
	"foodgram-backend/models"
)

type UserView struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []models.Tag           `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// RecipeShortView is the compact form used in toggle responses and
// subscription listings.
type RecipeShortView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionView struct {
	UserView
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

// Presenter turns models into response views, resolving the requester
// dependent flags with one membership lookup per flag for the whole batch.
type Presenter struct {
	members MembershipChecker
}

func NewPresenter(members MembershipChecker) *Presenter {
	return &Presenter{members: members}
}

func (p *Presenter) Recipe(ctx context.Context, recipe models.Recipe) (RecipeView, error) {
	views, err := p.Recipes(ctx, []models.Recipe{recipe})
	if err != nil {
		return RecipeView{}, err
	}
	return views[0], nil
}

func (p *Presenter) Recipes(ctx context.Context, recipes []models.Recipe) ([]RecipeView, error) {
	req := identity.FromContext(ctx)
	favorited, inCart, followed := map[uint]bool{}, map[uint]bool{}, map[uint]bool{}

	if !req.Anonymous() && len(recipes) > 0 {
		recipeIDs := make([]uint, 0, len(recipes))
		authorIDs := make([]uint, 0, len(recipes))
		seenAuthor := make(map[uint]bool)
		for _, r := range recipes {
			recipeIDs = append(recipeIDs, r.ID)
			if !seenAuthor[r.AuthorID] {
				seenAuthor[r.AuthorID] = true
				authorIDs = append(authorIDs, r.AuthorID)
			}
		}

		var err error
		if favorited, err = p.members.FavoritedRecipes(ctx, req.UserID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = p.members.CartRecipes(ctx, req.UserID, recipeIDs); err != nil {
			return nil, err
		}
		if followed, err = p.members.FollowedAuthors(ctx, req.UserID, authorIDs); err != nil {
			return nil, err
		}
	}

	views := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		view := RecipeView{
			ID:               r.ID,
			Tags:             r.Tags,
			Author:           userView(r.Author, followed[r.AuthorID]),
			Ingredients:      make([]RecipeIngredientView, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
		if view.Tags == nil {
			view.Tags = []models.Tag{}
		}
		for _, item := range r.Ingredients {
			view.Ingredients = append(view.Ingredients, RecipeIngredientView{
				ID:              item.IngredientID,
				Name:            item.Ingredient.Name,
				MeasurementUnit: item.Ingredient.MeasurementUnit,
				Amount:          item.Amount,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

func (p *Presenter) User(ctx context.Context, user models.User) (UserView, error) {
	views, err := p.Users(ctx, []models.User{user})
	if err != nil {
		return UserView{}, err
	}
	return views[0], nil
}

func (p *Presenter) Users(ctx context.Context, users []models.User) ([]UserView, error) {
	followed, err := p.followed(ctx, users)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u, followed[u.ID]))
	}
	return views, nil
}

func (p *Presenter) Subscription(ctx context.Context, sub Subscription) (SubscriptionView, error) {
	views, err := p.Subscriptions(ctx, []Subscription{sub})
	if err != nil {
		return SubscriptionView{}, err
	}
	return views[0], nil
}

func (p *Presenter) Subscriptions(ctx context.Context, subs []Subscription) ([]SubscriptionView, error) {
	authors := make([]models.User, len(subs))
	for i, sub := range subs {
		authors[i] = sub.Author
	}
	followed, err := p.followed(ctx, authors)
	if err != nil {
		return nil, err
	}

	views := make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		view := SubscriptionView{
			UserView:     userView(sub.Author, followed[sub.Author.ID]),
			Recipes:      make([]RecipeShortView, 0, len(sub.Recipes)),
			RecipesCount: sub.RecipesCount,
		}
		for _, r := range sub.Recipes {
			view.Recipes = append(view.Recipes, ShortRecipe(r))
		}
		views = append(views, view)
	}
	return views, nil
}

func (p *Presenter) followed(ctx context.Context, users []models.User) (map[uint]bool, error) {
	req := identity.FromContext(ctx)
	if req.Anonymous() || len(users) == 0 {
		return map[uint]bool{}, nil
	}
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return p.members.FollowedAuthors(ctx, req.UserID, ids)
}

func ShortRecipe(r models.Recipe) RecipeShortView {
	return RecipeShortView{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func userView(u models.User, subscribed bool) UserView {
	return UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}
