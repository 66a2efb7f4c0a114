package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram-backend/apperr"
	"foodgram-backend/database"
	"foodgram-backend/identity"
	"foodgram-backend/models"
	"foodgram-backend/utils"
	"foodgram-backend/validation"

	"gorm.io/gorm"
)

// Subscription is a followed author with a preview of their newest recipes.
type Subscription struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Validation("a user with this email or username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate checks credentials and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err != nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Validation("unable to log in with provided credentials")
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	req := identity.FromContext(ctx)
	if req.Anonymous() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	return s.Get(ctx, req.UserID)
}

func (s *UserService) List(ctx context.Context, page Page) ([]models.User, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []models.User
	if err := q.Order("username").Offset(page.Offset()).Limit(page.Size).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Subscriptions lists the authors the requester follows. recipesLimit caps
// the recipe preview per author; zero or less means no cap.
func (s *UserService) Subscriptions(ctx context.Context, page Page, recipesLimit int) ([]Subscription, int64, error) {
	req := identity.FromContext(ctx)
	if req.Anonymous() {
		return nil, 0, apperr.Unauthenticated("authentication required")
	}

	followed := s.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", req.UserID)
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("id IN (?)", followed).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}
	var authors []models.User
	if err := q.Order("username").Offset(page.Offset()).Limit(page.Size).Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	subs, err := s.withRecipes(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// SubscriptionFor builds the single entry returned after a follow.
func (s *UserService) SubscriptionFor(ctx context.Context, author models.User, recipesLimit int) (Subscription, error) {
	subs, err := s.withRecipes(ctx, []models.User{author}, recipesLimit)
	if err != nil {
		return Subscription{}, err
	}
	return subs[0], nil
}

func (s *UserService) withRecipes(ctx context.Context, authors []models.User, recipesLimit int) ([]Subscription, error) {
	subs := make([]Subscription, len(authors))
	if len(authors) == 0 {
		return subs, nil
	}
	ids := make([]uint, len(authors))
	index := make(map[uint]int, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
		index[a.ID] = i
		subs[i].Author = a
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id IN ?", ids).
		Order("created_at DESC").
		Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("load author recipes: %w", err)
	}
	for _, r := range recipes {
		sub := &subs[index[r.AuthorID]]
		sub.RecipesCount++
		if recipesLimit <= 0 || len(sub.Recipes) < recipesLimit {
			sub.Recipes = append(sub.Recipes, r)
		}
	}
	return subs, nil
}
