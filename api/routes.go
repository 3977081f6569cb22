package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/foodgram-backend/models"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// parsePagination reads the limit and page query params. Page numbering
// starts at 1.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if parsed, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && parsed > 0 {
		limit = parsed
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 1 {
		offset = (page - 1) * limit
	}
	return limit, offset
}

// boolParam reads flag-style query params, accepting "1" or "true".
func boolParam(r *http.Request, name string) bool {
	value := r.URL.Query().Get(name)
	return value == "1" || value == "true"
}

// setupRoutes registers the public reads and the authenticated writes.
// Static segments are registered before their {param} siblings.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	// Public routes. loadUser resolves the viewer when a token is
	// present so relation flags come back filled for logged-in readers.
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.loadUser)

		r.Post("/api/users", handlers.authHandler.signup())
		r.Post("/api/auth/token/login", handlers.authHandler.login())

		r.Get("/api/tags", handlers.tagHandler.listTags())
		r.Get("/api/tags/{tagID}", handlers.tagHandler.getTag())

		r.Get("/api/ingredients", handlers.ingredientHandler.listIngredients())
		r.Get("/api/ingredients/{ingredientID}", handlers.ingredientHandler.getIngredient())

		r.Get("/api/recipes", handlers.recipeHandler.listRecipes())
		r.Get("/api/recipes/{recipeID}", handlers.recipeHandler.getRecipe())

		r.Get("/api/users", handlers.userHandler.listUsers())
		r.Get("/api/users/{userID}", handlers.userHandler.getUser())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.authenticate)

		r.Get("/api/users/me", handlers.userHandler.me())
		r.Get("/api/users/subscriptions", handlers.userHandler.subscriptions())
		r.Post("/api/users/{userID}/subscribe", handlers.userHandler.subscribe())
		r.Delete("/api/users/{userID}/subscribe", handlers.userHandler.unsubscribe())

		r.Post("/api/recipes", handlers.recipeHandler.createRecipe())
		r.Get("/api/recipes/download_shopping_cart", handlers.recipeHandler.downloadShoppingCart())
		r.Patch("/api/recipes/{recipeID}", handlers.recipeHandler.updateRecipe())
		r.Delete("/api/recipes/{recipeID}", handlers.recipeHandler.deleteRecipe())
		r.Post("/api/recipes/{recipeID}/favorite", handlers.recipeHandler.addRelation(models.RelationFavorite))
		r.Delete("/api/recipes/{recipeID}/favorite", handlers.recipeHandler.removeRelation(models.RelationFavorite))
		r.Post("/api/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.addRelation(models.RelationShoppingCart))
		r.Delete("/api/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.removeRelation(models.RelationShoppingCart))
	})
}
