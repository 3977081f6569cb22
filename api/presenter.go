package api

import (
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/models"
)

// Response shapes for the boundary. The derived flags (is_favorited,
// is_in_shopping_cart, is_subscribed) are computed relative to the
// requesting identity and are always false for anonymous viewers.

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Author           UserResponse               `json:"author"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	Tags             []models.Tag               `json:"tags"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
}

// RecipePreview is the short recipe shape used in subscription listings.
type RecipePreview struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipePreview `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// viewerFlags carries the relation lookups for one request. The zero
// value (anonymous viewer) reports false everywhere.
type viewerFlags struct {
	favorited  map[uuid.UUID]bool
	inCart     map[uuid.UUID]bool
	subscribed map[uuid.UUID]bool
}

// Presenter maps persisted entities to response shapes. Flag lookups
// are batched: one query per relation kind per request, none at all for
// anonymous viewers.
type Presenter struct {
	relationRepo *database.RelationRepo
}

func NewPresenter(relationRepo *database.RelationRepo) Presenter {
	return Presenter{relationRepo}
}

// flagsForRecipes loads the viewer's relation flags for a page of
// recipes, including subscriptions to the recipe authors.
func (p Presenter) flagsForRecipes(viewerID uuid.UUID, recipes []*models.Recipe) (viewerFlags, error) {
	var flags viewerFlags
	if viewerID == uuid.Nil {
		return flags, nil
	}

	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	seenAuthors := make(map[uuid.UUID]bool)
	for i, recipe := range recipes {
		recipeIDs[i] = recipe.ID
		if !seenAuthors[recipe.AuthorID] {
			seenAuthors[recipe.AuthorID] = true
			authorIDs = append(authorIDs, recipe.AuthorID)
		}
	}

	favorited, inCart, err := p.relationRepo.RecipeFlags(viewerID, recipeIDs)
	if err != nil {
		return flags, err
	}
	subscribed, err := p.relationRepo.SubscriptionFlags(viewerID, authorIDs)
	if err != nil {
		return flags, err
	}
	return viewerFlags{favorited: favorited, inCart: inCart, subscribed: subscribed}, nil
}

// flagsForUsers loads subscription flags for a page of user profiles.
func (p Presenter) flagsForUsers(viewerID uuid.UUID, userIDs []uuid.UUID) (viewerFlags, error) {
	var flags viewerFlags
	if viewerID == uuid.Nil {
		return flags, nil
	}
	subscribed, err := p.relationRepo.SubscriptionFlags(viewerID, userIDs)
	if err != nil {
		return flags, err
	}
	return viewerFlags{subscribed: subscribed}, nil
}

// Recipes maps a page of recipes with the viewer's flags.
func (p Presenter) Recipes(viewerID uuid.UUID, recipes []*models.Recipe) ([]RecipeResponse, error) {
	flags, err := p.flagsForRecipes(viewerID, recipes)
	if err != nil {
		return nil, err
	}
	responses := make([]RecipeResponse, len(recipes))
	for i, recipe := range recipes {
		responses[i] = buildRecipeResponse(recipe, flags)
	}
	return responses, nil
}

// Recipe maps a single recipe with the viewer's flags.
func (p Presenter) Recipe(viewerID uuid.UUID, recipe *models.Recipe) (RecipeResponse, error) {
	flags, err := p.flagsForRecipes(viewerID, []*models.Recipe{recipe})
	if err != nil {
		return RecipeResponse{}, err
	}
	return buildRecipeResponse(recipe, flags), nil
}

// Users maps user profiles with the viewer's subscription flags.
func (p Presenter) Users(viewerID uuid.UUID, users []*models.User) ([]UserResponse, error) {
	userIDs := make([]uuid.UUID, len(users))
	for i, user := range users {
		userIDs[i] = user.ID
	}
	flags, err := p.flagsForUsers(viewerID, userIDs)
	if err != nil {
		return nil, err
	}
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = buildUserResponse(user, flags.subscribed[user.ID])
	}
	return responses, nil
}

// buildRecipeResponse is the pure mapping step: everything derived is
// read out of the prefetched flag sets.
func buildRecipeResponse(recipe *models.Recipe, flags viewerFlags) RecipeResponse {
	ingredients := make([]RecipeIngredientResponse, len(recipe.Ingredients))
	for i, item := range recipe.Ingredients {
		ingredients[i] = RecipeIngredientResponse{
			ID:              item.IngredientID,
			Name:            item.Ingredient.Name,
			MeasurementUnit: item.Ingredient.MeasurementUnit,
			Amount:          item.Amount,
		}
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeResponse{
		ID:               recipe.ID,
		Author:           buildUserResponse(&recipe.Author, flags.subscribed[recipe.AuthorID]),
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      flags.favorited[recipe.ID],
		IsInShoppingCart: flags.inCart[recipe.ID],
	}
}

func buildUserResponse(user *models.User, subscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

// buildSubscriptionResponse attaches recipe previews and counts to an
// author profile. Previews are capped by recipesLimit when positive.
func buildSubscriptionResponse(author *models.User, recipes []*models.Recipe, recipesCount int64, recipesLimit int) SubscriptionResponse {
	previews := make([]RecipePreview, 0, len(recipes))
	for _, recipe := range recipes {
		if recipesLimit > 0 && len(previews) >= recipesLimit {
			break
		}
		previews = append(previews, RecipePreview{
			ID:          recipe.ID,
			Name:        recipe.Name,
			Image:       recipe.Image,
			CookingTime: recipe.CookingTime,
		})
	}
	return SubscriptionResponse{
		// Subscription listings are by definition subscribed authors.
		UserResponse: buildUserResponse(author, true),
		Recipes:      previews,
		RecipesCount: recipesCount,
	}
}
