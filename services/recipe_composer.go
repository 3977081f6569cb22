package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	minCookingTime = 1
	maxCookingTime = 600
)

// IngredientAmount pairs an ingredient reference with its weight in the
// recipe.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeInput is the deserialized payload for both create and update.
// Image is an optional base64 data-URI; on update an empty image keeps
// the stored one.
type RecipeInput struct {
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
	Image       string             `json:"image"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// RecipeComposer validates and persists the full recipe graph (scalar
// fields, tag set, weighted ingredient set) as one atomic operation.
type RecipeComposer struct {
	logger         zerolog.Logger
	recipeRepo     *database.RecipeRepo
	tagRepo        *database.TagRepo
	ingredientRepo *database.IngredientRepo
	images         *ImageStore
}

func NewRecipeComposer(recipeRepo *database.RecipeRepo, tagRepo *database.TagRepo, ingredientRepo *database.IngredientRepo, images *ImageStore) *RecipeComposer {
	logger := log.With().Str("serviceName", "recipeComposer").Logger()

	return &RecipeComposer{
		logger:         logger,
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		images:         images,
	}
}

// validateRecipeInput rejects malformed input before anything touches
// the store. Every ingredient amount is checked, not just the first.
func validateRecipeInput(input RecipeInput) error {
	if input.Name == "" {
		return errs.NewValidationError("name", "name must not be empty")
	}
	if input.CookingTime < minCookingTime || input.CookingTime > maxCookingTime {
		return errs.NewValidationError("cooking_time", "cooking time must be between 1 and 600 minutes")
	}
	if len(input.Tags) == 0 {
		return errs.NewValidationError("tags", "recipe requires at least one tag")
	}
	seenTags := make(map[uuid.UUID]bool, len(input.Tags))
	for _, id := range input.Tags {
		if seenTags[id] {
			return errs.NewValidationError("tags", "tags must not repeat")
		}
		seenTags[id] = true
	}
	if len(input.Ingredients) == 0 {
		return errs.NewValidationError("ingredients", "recipe requires at least one ingredient")
	}
	seenIngredients := make(map[uuid.UUID]bool, len(input.Ingredients))
	for _, item := range input.Ingredients {
		if seenIngredients[item.ID] {
			return errs.NewValidationError("ingredients", "ingredients must not repeat")
		}
		seenIngredients[item.ID] = true
		if item.Amount <= 0 {
			return errs.NewValidationError("ingredients", "ingredient amount must be a positive number")
		}
	}
	return nil
}

// Create validates the input, resolves every referenced tag and
// ingredient, then persists the whole graph in one transaction. Any
// failure leaves no partial recipe behind.
func (c *RecipeComposer) Create(authorID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	tags, items, err := c.resolveReferences(input)
	if err != nil {
		return nil, err
	}

	imagePath := ""
	if input.Image != "" {
		imagePath, err = c.images.Save(input.Image)
		if err != nil {
			return nil, err
		}
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Image:       imagePath,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}

	if err := c.recipeRepo.AddGraph(recipe, tags, items); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewConflictError("you already have a recipe with this name")
		}
		return nil, errs.NewStorageError("create", "recipe", err)
	}

	c.logger.Info().
		Str("recipeID", recipe.ID.String()).
		Str("authorID", authorID.String()).
		Msg("recipe created")

	return c.reload(recipe.ID)
}

// Update applies the same validation as Create and then fully replaces
// the stored graph: scalar fields, tag set and ingredient set, in one
// transaction. Authorization (owner or administrator) is the caller's
// responsibility.
func (c *RecipeComposer) Update(recipeID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	existing, err := c.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("recipe not found")
		}
		return nil, errs.NewStorageError("find", "recipe", err)
	}

	tags, items, err := c.resolveReferences(input)
	if err != nil {
		return nil, err
	}

	imagePath := existing.Image
	if input.Image != "" {
		imagePath, err = c.images.Save(input.Image)
		if err != nil {
			return nil, err
		}
	}

	recipe := &models.Recipe{
		ID:          recipeID,
		AuthorID:    existing.AuthorID,
		Name:        input.Name,
		Image:       imagePath,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}

	if err := c.recipeRepo.ReplaceGraph(recipe, tags, items); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewConflictError("you already have a recipe with this name")
		}
		return nil, errs.NewStorageError("update", "recipe", err)
	}

	c.logger.Info().Str("recipeID", recipeID.String()).Msg("recipe updated")

	return c.reload(recipeID)
}

// Delete removes the recipe; junction rows, favorites and cart entries
// cascade away at the storage level.
func (c *RecipeComposer) Delete(recipeID uuid.UUID) error {
	deleted, err := c.recipeRepo.Delete(recipeID)
	if err != nil {
		return errs.NewStorageError("delete", "recipe", err)
	}
	if deleted == 0 {
		return errs.NewNotFoundError("recipe not found")
	}
	c.logger.Info().Str("recipeID", recipeID.String()).Msg("recipe deleted")
	return nil
}

// resolveReferences loads the referenced tags and ingredients and fails
// with NotFound when any ID does not resolve.
func (c *RecipeComposer) resolveReferences(input RecipeInput) ([]models.Tag, []models.RecipeIngredient, error) {
	tags, err := c.tagRepo.FindByIDs(input.Tags)
	if err != nil {
		return nil, nil, errs.NewStorageError("find", "tags", err)
	}
	if len(tags) != len(input.Tags) {
		return nil, nil, errs.NewNotFoundError("one or more tags do not exist")
	}

	ingredientIDs := make([]uuid.UUID, len(input.Ingredients))
	for i, item := range input.Ingredients {
		ingredientIDs[i] = item.ID
	}
	ingredients, err := c.ingredientRepo.FindByIDs(ingredientIDs)
	if err != nil {
		return nil, nil, errs.NewStorageError("find", "ingredients", err)
	}
	if len(ingredients) != len(input.Ingredients) {
		return nil, nil, errs.NewNotFoundError("one or more ingredients do not exist")
	}

	items := make([]models.RecipeIngredient, len(input.Ingredients))
	for i, item := range input.Ingredients {
		items[i] = models.RecipeIngredient{
			IngredientID: item.ID,
			Amount:       item.Amount,
		}
	}
	return tags, items, nil
}

func (c *RecipeComposer) reload(recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := c.recipeRepo.FindByID(recipeID)
	if err != nil {
		return nil, errs.NewStorageError("reload", "recipe", err)
	}
	return recipe, nil
}
