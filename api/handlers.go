package api

import (
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/services"
)

type routeHandlers struct {
	authHandler       authHandler
	userHandler       userHandler
	tagHandler        tagHandler
	ingredientHandler ingredientHandler
	recipeHandler     recipeHandler
}

// initializeHandlers creates the service layer and returns all handlers
// organized in a routeHandlers struct
func initializeHandlers(database database.Database, auth *services.AuthService, images *services.ImageStore) *routeHandlers {
	relations := services.NewRelationService(database.RelationRepo(), database.RecipeRepo(), database.UserRepo())
	composer := services.NewRecipeComposer(database.RecipeRepo(), database.TagRepo(), database.IngredientRepo(), images)
	shoppingList := services.NewShoppingListService(database.ShoppingListRepo())
	presenter := NewPresenter(database.RelationRepo())

	return &routeHandlers{
		authHandler:       newAuthHandler(auth),
		userHandler:       newUserHandler(database.UserRepo(), database.RecipeRepo(), relations, presenter),
		tagHandler:        newTagHandler(database.TagRepo()),
		ingredientHandler: newIngredientHandler(database.IngredientRepo()),
		recipeHandler:     newRecipeHandler(database.RecipeRepo(), database.UserRepo(), composer, relations, shoppingList, presenter),
	}
}
