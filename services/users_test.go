package services

import (
	"context"
	"fmt"
	"testing"

	"foodgram-backend/apperr"
	"foodgram-backend/database/dbtest"
	"foodgram-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndAuthenticate(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserService(db)
	ctx := context.Background()

	user, err := users.Signup(ctx, models.SignupRequest{
		Email: "Chef@Example.com", Username: "chef", FirstName: "Gordon", LastName: "R", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	_, err = users.Signup(ctx, models.SignupRequest{
		Email: "chef@example.com", Username: "other", FirstName: "A", LastName: "B", Password: "s3cret-pass",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "duplicate email")

	_, err = users.Signup(ctx, models.SignupRequest{Email: "not-an-email", Username: "x"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	got, err := users.Authenticate(ctx, "chef@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = users.Authenticate(ctx, "chef@example.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = users.Authenticate(ctx, "nobody@example.com", "s3cret-pass")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUserReads(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserService(db)
	alice := dbtest.CreateUser(t, db, "alice")
	dbtest.CreateUser(t, db, "bob")

	me, err := users.Me(as(alice))
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = users.Me(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = users.Get(context.Background(), 9999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	list, total, err := users.List(context.Background(), Page{Number: 1, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Username)
}

func TestUserListOrderedByUsername(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserService(db)
	for _, name := range []string{"zoe", "carol", "mike"} {
		dbtest.CreateUser(t, db, name)
	}

	list, total, err := users.List(context.Background(), Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	var names []string
	for _, u := range list {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"carol", "mike", "zoe"}, names)
}

func TestSubscriptionsLimitRecipes(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.db)
	bob := dbtest.CreateUser(t, f.db, "bob")
	carol := dbtest.CreateUser(t, f.db, "carol")
	for i := 0; i < 4; i++ {
		dbtest.CreateRecipe(t, f.db, f.author, fmt.Sprintf("a%d", i), []models.Tag{f.lunch}, map[uint]int{f.milk.ID: 1})
	}
	dbtest.CreateRecipe(t, f.db, carol, "c0", []models.Tag{f.lunch}, map[uint]int{f.milk.ID: 1})
	require.NoError(t, f.db.Create(&models.Follow{UserID: bob.ID, AuthorID: f.author.ID}).Error)
	require.NoError(t, f.db.Create(&models.Follow{UserID: bob.ID, AuthorID: carol.ID}).Error)

	subs, total, err := users.Subscriptions(as(bob), Page{Number: 1, Size: 10}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, subs, 2)

	assert.Equal(t, "alice", subs[0].Author.Username)
	assert.Equal(t, int64(4), subs[0].RecipesCount)
	require.Len(t, subs[0].Recipes, 2)
	assert.Equal(t, "a3", subs[0].Recipes[0].Name)
	assert.Equal(t, "carol", subs[1].Author.Username)
	assert.Equal(t, int64(1), subs[1].RecipesCount)

	presenter := NewPresenter(NewGormMembership(f.db))
	views, err := presenter.Subscriptions(as(bob), subs)
	require.NoError(t, err)
	assert.True(t, views[0].IsSubscribed)
	assert.Len(t, views[0].Recipes, 2)

	unlimited, _, err := users.Subscriptions(as(bob), Page{Number: 1, Size: 10}, 0)
	require.NoError(t, err)
	assert.Len(t, unlimited[0].Recipes, 4)

	none, total, err := users.Subscriptions(as(f.author), Page{Number: 1, Size: 10}, 2)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}
