//go:build integration
// +build integration

package database_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rpupo63/foodgram-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db           database.Database
	relations    *services.RelationService
	composer     *services.RecipeComposer
	shoppingList *services.ShoppingListService
}

// setupTestDB starts a throwaway PostgreSQL container, migrates the
// schema and wires the service layer against it.
func setupTestDB(t *testing.T) testEnv {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "starting PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gormDB, err := database.Connect(connStr, "", &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(gormDB))

	db := database.New(gormDB)

	images, err := services.NewImageStore(t.TempDir(), "")
	require.NoError(t, err)

	return testEnv{
		db:           db,
		relations:    services.NewRelationService(db.RelationRepo(), db.RecipeRepo(), db.UserRepo()),
		composer:     services.NewRecipeComposer(db.RecipeRepo(), db.TagRepo(), db.IngredientRepo(), images),
		shoppingList: services.NewShoppingListService(db.ShoppingListRepo()),
	}
}

func seedUser(t *testing.T, env testEnv, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, env.db.UserRepo().Add(user))
	return user
}

func seedTag(t *testing.T, env testEnv, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Colour: "#49B64E", Slug: name}
	require.NoError(t, env.db.TagRepo().Add(tag))
	return tag
}

func seedIngredient(t *testing.T, env testEnv, name, unit string) *models.Ingredient {
	t.Helper()
	_, err := env.db.IngredientRepo().AddMissing([]models.Ingredient{{Name: name, MeasurementUnit: unit}})
	require.NoError(t, err)

	ingredients, err := env.db.IngredientRepo().FindAll(name, 10, 0)
	require.NoError(t, err)
	for _, ingredient := range ingredients {
		if ingredient.Name == name && ingredient.MeasurementUnit == unit {
			return ingredient
		}
	}
	t.Fatalf("seeded ingredient %s (%s) not found", name, unit)
	return nil
}

func seedRecipe(t *testing.T, env testEnv, author *models.User, name string, tag *models.Tag, items []services.IngredientAmount) *models.Recipe {
	t.Helper()
	recipe, err := env.composer.Create(author.ID, services.RecipeInput{
		Name:        name,
		Text:        "test recipe",
		CookingTime: 30,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: items,
	})
	require.NoError(t, err)
	return recipe
}

func TestFavoriteToggleLifecycle(t *testing.T) {
	env := setupTestDB(t)
	author := seedUser(t, env, "author")
	viewer := seedUser(t, env, "viewer")
	tag := seedTag(t, env, "dinner")
	flour := seedIngredient(t, env, "flour", "g")
	recipe := seedRecipe(t, env, author, "Bread", tag, []services.IngredientAmount{{ID: flour.ID, Amount: 500}})

	require.NoError(t, env.relations.Add(models.RelationFavorite, viewer.ID, recipe.ID))

	exists, err := env.db.RelationRepo().Exists(models.RelationFavorite, viewer.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// second add for the same pair conflicts and leaves a single row
	err = env.relations.Add(models.RelationFavorite, viewer.ID, recipe.ID)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	require.NoError(t, env.relations.Remove(models.RelationFavorite, viewer.ID, recipe.ID))

	err = env.relations.Remove(models.RelationFavorite, viewer.ID, recipe.ID)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestFavoriteMissingRecipe(t *testing.T) {
	env := setupTestDB(t)
	viewer := seedUser(t, env, "viewer")

	err := env.relations.Add(models.RelationFavorite, viewer.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestSelfSubscriptionRejected(t *testing.T) {
	env := setupTestDB(t)
	user := seedUser(t, env, "narcissus")

	err := env.relations.Add(models.RelationSubscription, user.ID, user.ID)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidOperation(err))
}

func TestSubscriptionToggle(t *testing.T) {
	env := setupTestDB(t)
	reader := seedUser(t, env, "reader")
	author := seedUser(t, env, "writer")

	require.NoError(t, env.relations.Add(models.RelationSubscription, reader.ID, author.ID))

	err := env.relations.Add(models.RelationSubscription, reader.ID, author.ID)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	// the reverse direction is a distinct pair
	require.NoError(t, env.relations.Add(models.RelationSubscription, author.ID, reader.ID))

	authors, err := env.db.UserRepo().FindSubscribedAuthors(reader.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, author.ID, authors[0].ID)
}

func TestConcurrentFavoriteAddsSingleWinner(t *testing.T) {
	env := setupTestDB(t)
	author := seedUser(t, env, "author")
	viewer := seedUser(t, env, "viewer")
	tag := seedTag(t, env, "lunch")
	rice := seedIngredient(t, env, "rice", "g")
	recipe := seedRecipe(t, env, author, "Pilaf", tag, []services.IngredientAmount{{ID: rice.ID, Amount: 300}})

	const workers = 8
	results := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = env.relations.Add(models.RelationFavorite, viewer.ID, recipe.ID)
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errs.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error from concurrent add: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestShoppingListAggregation(t *testing.T) {
	env := setupTestDB(t)
	author := seedUser(t, env, "chef")
	shopper := seedUser(t, env, "shopper")
	tag := seedTag(t, env, "baking")
	flour := seedIngredient(t, env, "flour", "g")
	sugarGrams := seedIngredient(t, env, "sugar", "g")
	sugarSpoons := seedIngredient(t, env, "sugar spoons", "tbsp")

	bread := seedRecipe(t, env, author, "Bread", tag, []services.IngredientAmount{
		{ID: flour.ID, Amount: 200},
		{ID: sugarGrams.ID, Amount: 50},
	})
	cake := seedRecipe(t, env, author, "Cake", tag, []services.IngredientAmount{
		{ID: flour.ID, Amount: 150},
		{ID: sugarSpoons.ID, Amount: 3},
	})
	// favorited but not in the cart, must not leak into the list
	extra := seedRecipe(t, env, author, "Extra", tag, []services.IngredientAmount{
		{ID: flour.ID, Amount: 999},
	})

	require.NoError(t, env.relations.Add(models.RelationShoppingCart, shopper.ID, bread.ID))
	require.NoError(t, env.relations.Add(models.RelationShoppingCart, shopper.ID, cake.ID))
	require.NoError(t, env.relations.Add(models.RelationFavorite, shopper.ID, extra.ID))

	rows, err := env.shoppingList.Build(shopper.ID)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	// alphabetical by name, then unit
	assert.Equal(t, "flour", rows[0].Name)
	assert.Equal(t, int64(350), rows[0].TotalAmount)
	assert.Equal(t, "sugar", rows[1].Name)
	assert.Equal(t, int64(50), rows[1].TotalAmount)
	assert.Equal(t, "sugar spoons", rows[2].Name)
	assert.Equal(t, int64(3), rows[2].TotalAmount)
}

func TestShoppingListBuildIsIdempotent(t *testing.T) {
	env := setupTestDB(t)
	author := seedUser(t, env, "chef")
	shopper := seedUser(t, env, "shopper")
	tag := seedTag(t, env, "baking")
	flour := seedIngredient(t, env, "flour", "g")
	milk := seedIngredient(t, env, "milk", "ml")

	bread := seedRecipe(t, env, author, "Bread", tag, []services.IngredientAmount{
		{ID: flour.ID, Amount: 200},
		{ID: milk.ID, Amount: 100},
	})
	require.NoError(t, env.relations.Add(models.RelationShoppingCart, shopper.ID, bread.ID))

	first, err := env.shoppingList.Build(shopper.ID)
	require.NoError(t, err)
	second, err := env.shoppingList.Build(shopper.ID)
	require.NoError(t, err)

	// a pure read: repeated builds over an unchanged cart are identical
	assert.Equal(t, first, second)
	require.Len(t, second, 2)
}

func TestShoppingListEmptyCart(t *testing.T) {
	env := setupTestDB(t)
	shopper := seedUser(t, env, "shopper")

	rows, err := env.shoppingList.Build(shopper.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecipeCreateReadBackKeepsSets(t *testing.T) {
	env := setupTestDB(t)
	author := seedUser(t, env, "author")
	dinner := seedTag(t, env, "dinner")
	baking := seedTag(t, env, "baking")
	flour := seedIngredient(t, env, "flour", "g")
	milk := seedIngredient(t, env, "milk", "ml")

	created, err := env.composer.Create(author.ID, services.RecipeInput{
		Name:        "Pancakes",
		Text:        "mix and fry",
		CookingTime: 20,
		Tags:        []uuid.UUID{dinner.ID, baking.ID},
		Ingredients: []services.IngredientAmount{
			{ID: flour.ID, Amount: 200},
			{ID: milk.ID, Amount: 300},
		},
	})
	require.NoError(t, err)

	read, err := env.db.RecipeRepo().FindByID(created.ID)
	require.NoError(t, err)

	gotTags := make(map[uuid.UUID]bool)
	for _, tag := range read.Tags {
		gotTags[tag.ID] = true
	}
	assert.Equal(t, map[uuid.UUID]bool{dinner.ID: true, baking.ID: true}, gotTags)

	gotAmounts := make(map[uuid.UUID]int)
	for _, item := range read.Ingredients {
		gotAmounts[item.IngredientID] = item.Amount
	}
	assert.Equal(t, map[uuid.UUID]int{flour.ID: 200, milk.ID: 300}, gotAmounts)
}

func TestRecipeListFilters(t *testing.T) {
	env := setupTestDB(t)
	author := seedUser(t, env, "author")
	viewer := seedUser(t, env, "viewer")
	dinner := seedTag(t, env, "dinner")
	baking := seedTag(t, env, "baking")
	flour := seedIngredient(t, env, "flour", "g")
	items := []services.IngredientAmount{{ID: flour.ID, Amount: 100}}

	stew := seedRecipe(t, env, author, "Stew", dinner, items)
	bread := seedRecipe(t, env, author, "Bread", baking, items)

	require.NoError(t, env.relations.Add(models.RelationFavorite, viewer.ID, stew.ID))
	require.NoError(t, env.relations.Add(models.RelationShoppingCart, viewer.ID, bread.ID))

	favorited, err := env.db.RecipeRepo().FindAll(database.RecipeFilter{FavoritedBy: viewer.ID})
	require.NoError(t, err)
	require.Len(t, favorited, 1)
	assert.Equal(t, stew.ID, favorited[0].ID)

	inCart, err := env.db.RecipeRepo().FindAll(database.RecipeFilter{InCartOf: viewer.ID})
	require.NoError(t, err)
	require.Len(t, inCart, 1)
	assert.Equal(t, bread.ID, inCart[0].ID)

	single, err := env.db.RecipeRepo().FindAll(database.RecipeFilter{TagSlugs: []string{"dinner"}})
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, stew.ID, single[0].ID)

	// multiple slugs select the union, each recipe once
	both, err := env.db.RecipeRepo().FindAll(database.RecipeFilter{TagSlugs: []string{"dinner", "baking"}})
	require.NoError(t, err)
	assert.Len(t, both, 2)
}

func TestRecipeCreateRejectsUnknownReferences(t *testing.T) {
	env := setupTestDB(t)
	author := seedUser(t, env, "author")
	tag := seedTag(t, env, "dinner")

	_, err := env.composer.Create(author.ID, services.RecipeInput{
		Name:        "Ghost stew",
		Text:        "nothing resolves",
		CookingTime: 30,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: []services.IngredientAmount{{ID: uuid.New(), Amount: 100}},
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	// nothing persisted
	recipes, err := env.db.RecipeRepo().FindAll(database.RecipeFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestRecipeDuplicateNamePerAuthor(t *testing.T) {
	env := setupTestDB(t)
	alice := seedUser(t, env, "alice")
	bob := seedUser(t, env, "bob")
	tag := seedTag(t, env, "dinner")
	flour := seedIngredient(t, env, "flour", "g")
	items := []services.IngredientAmount{{ID: flour.ID, Amount: 100}}

	seedRecipe(t, env, alice, "Pancakes", tag, items)

	_, err := env.composer.Create(alice.ID, services.RecipeInput{
		Name:        "Pancakes",
		Text:        "again",
		CookingTime: 10,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: items,
	})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	// a different author may reuse the name
	seedRecipe(t, env, bob, "Pancakes", tag, items)
}

func TestRecipeUpdateReplacesGraph(t *testing.T) {
	env := setupTestDB(t)
	author := seedUser(t, env, "author")
	dinner := seedTag(t, env, "dinner")
	lunch := seedTag(t, env, "lunch")
	flour := seedIngredient(t, env, "flour", "g")
	milk := seedIngredient(t, env, "milk", "ml")

	recipe := seedRecipe(t, env, author, "Pancakes", dinner, []services.IngredientAmount{
		{ID: flour.ID, Amount: 200},
		{ID: milk.ID, Amount: 300},
	})

	updated, err := env.composer.Update(recipe.ID, services.RecipeInput{
		Name:        "Thin pancakes",
		Text:        "updated",
		CookingTime: 15,
		Tags:        []uuid.UUID{lunch.ID},
		Ingredients: []services.IngredientAmount{{ID: flour.ID, Amount: 250}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Thin pancakes", updated.Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, lunch.ID, updated.Tags[0].ID)
	// full replace: one row for flour with the new amount, milk gone
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, flour.ID, updated.Ingredients[0].IngredientID)
	assert.Equal(t, 250, updated.Ingredients[0].Amount)
}

func TestRecipeDeleteCascades(t *testing.T) {
	env := setupTestDB(t)
	author := seedUser(t, env, "author")
	viewer := seedUser(t, env, "viewer")
	tag := seedTag(t, env, "dinner")
	flour := seedIngredient(t, env, "flour", "g")
	recipe := seedRecipe(t, env, author, "Bread", tag, []services.IngredientAmount{{ID: flour.ID, Amount: 500}})

	require.NoError(t, env.relations.Add(models.RelationFavorite, viewer.ID, recipe.ID))
	require.NoError(t, env.relations.Add(models.RelationShoppingCart, viewer.ID, recipe.ID))

	require.NoError(t, env.composer.Delete(recipe.ID))

	for _, kind := range []models.RelationKind{models.RelationFavorite, models.RelationShoppingCart} {
		exists, err := env.db.RelationRepo().Exists(kind, viewer.ID, recipe.ID)
		require.NoError(t, err)
		assert.False(t, exists, fmt.Sprintf("%s row should cascade away", kind))
	}

	err := env.composer.Delete(recipe.ID)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
