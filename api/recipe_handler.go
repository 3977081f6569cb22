package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rpupo63/foodgram-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type recipeHandler struct {
	responder    Responder
	logger       zerolog.Logger
	recipeRepo   *database.RecipeRepo
	userRepo     *database.UserRepo
	composer     *services.RecipeComposer
	relations    *services.RelationService
	shoppingList *services.ShoppingListService
	presenter    Presenter
}

func newRecipeHandler(recipeRepo *database.RecipeRepo, userRepo *database.UserRepo, composer *services.RecipeComposer, relations *services.RelationService, shoppingList *services.ShoppingListService, presenter Presenter) recipeHandler {
	logger := log.With().Str("handlerName", "recipeHandler").Logger()

	return recipeHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		recipeRepo:   recipeRepo,
		userRepo:     userRepo,
		composer:     composer,
		relations:    relations,
		shoppingList: shoppingList,
		presenter:    presenter,
	}
}

// listRecipes returns a page of recipes, newest first, with viewer flags
func (h recipeHandler) listRecipes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, _ := ctxUserID(r.Context())
		limit, offset := parsePagination(r)

		filter := database.RecipeFilter{
			TagSlugs: r.URL.Query()["tag"],
			Limit:    limit,
			Offset:   offset,
		}
		if authorParam := r.URL.Query().Get("author"); authorParam != "" {
			authorID, err := uuid.Parse(authorParam)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid author ID"))
				return
			}
			filter.AuthorID = authorID
		}
		// viewer-relative filters mean nothing for anonymous requests
		if viewerID != uuid.Nil {
			if boolParam(r, "is_favorited") {
				filter.FavoritedBy = viewerID
			}
			if boolParam(r, "is_in_shopping_cart") {
				filter.InCartOf = viewerID
			}
		}

		recipes, err := h.recipeRepo.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("find", "recipes", err))
			return
		}

		responses, err := h.presenter.Recipes(viewerID, recipes)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("load flags for", "recipes", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"results": responses,
			"count":   len(responses),
		})
	}
}

// getRecipe returns one recipe with its full graph and viewer flags
func (h recipeHandler) getRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipe, ok := h.fetchRecipe(w, r)
		if !ok {
			return
		}
		viewerID, _ := ctxUserID(r.Context())

		response, err := h.presenter.Recipe(viewerID, recipe)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("load flags for", "recipe", err))
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

// createRecipe validates and persists a new recipe graph atomically
func (h recipeHandler) createRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, ok := ctxUserID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}

		var input services.RecipeInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		recipe, err := h.composer.Create(authorID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response, err := h.presenter.Recipe(authorID, recipe)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("load flags for", "recipe", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, response)
	}
}

// updateRecipe fully replaces a recipe's fields, tag set and
// ingredient set. Only the author or an administrator may update.
func (h recipeHandler) updateRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipe, ok := h.fetchRecipe(w, r)
		if !ok {
			return
		}
		viewerID, ok := h.authorizeOwner(w, r, recipe)
		if !ok {
			return
		}

		var input services.RecipeInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		updated, err := h.composer.Update(recipe.ID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response, err := h.presenter.Recipe(viewerID, updated)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("load flags for", "recipe", err))
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

// deleteRecipe removes a recipe and everything that hangs off it
func (h recipeHandler) deleteRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipe, ok := h.fetchRecipe(w, r)
		if !ok {
			return
		}
		if _, ok := h.authorizeOwner(w, r, recipe); !ok {
			return
		}

		if err := h.composer.Delete(recipe.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// addRelation handles POST /recipes/{recipeID}/favorite and
// .../shopping_cart through the one relation code path.
func (h recipeHandler) addRelation(kind models.RelationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, recipeID, ok := h.relationArgs(w, r)
		if !ok {
			return
		}

		if err := h.relations.Add(kind, userID, recipeID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipe, err := h.recipeRepo.FindByID(recipeID)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("find", "recipe", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, RecipePreview{
			ID:          recipe.ID,
			Name:        recipe.Name,
			Image:       recipe.Image,
			CookingTime: recipe.CookingTime,
		})
	}
}

// removeRelation handles the DELETE counterpart of addRelation.
func (h recipeHandler) removeRelation(kind models.RelationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, recipeID, ok := h.relationArgs(w, r)
		if !ok {
			return
		}

		if err := h.relations.Remove(kind, userID, recipeID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// downloadShoppingCart streams the aggregated purchase list as a
// text/plain attachment.
func (h recipeHandler) downloadShoppingCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ctxUserID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "user", err))
			return
		}

		rows, err := h.shoppingList.Build(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		body := services.RenderText(user.Username, rows)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", services.ShoppingListFilename))
		if _, err := w.Write([]byte(body)); err != nil {
			h.logger.Error().Err(err).Msg("error writing shopping list")
		}
	}
}

func (h recipeHandler) fetchRecipe(w http.ResponseWriter, r *http.Request) (*models.Recipe, bool) {
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
		return nil, false
	}
	recipe, err := h.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFoundError("recipe not found"))
		} else {
			h.responder.WriteError(w, errs.NewStorageError("find", "recipe", err))
		}
		return nil, false
	}
	return recipe, true
}

// authorizeOwner allows the recipe author or an administrator through.
func (h recipeHandler) authorizeOwner(w http.ResponseWriter, r *http.Request, recipe *models.Recipe) (uuid.UUID, bool) {
	viewerID, ok := ctxUserID(r.Context())
	if !ok {
		h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
		return uuid.Nil, false
	}
	if viewerID == recipe.AuthorID {
		return viewerID, true
	}
	viewer, err := h.userRepo.FindByID(viewerID)
	if err != nil {
		h.responder.WriteError(w, errs.FromDatabase("find", "user", err))
		return uuid.Nil, false
	}
	if !viewer.IsAdmin {
		h.responder.WriteError(w, errs.NewForbiddenError("only the author or an administrator may modify this recipe"))
		return uuid.Nil, false
	}
	return viewerID, true
}

func (h recipeHandler) relationArgs(w http.ResponseWriter, r *http.Request) (userID, recipeID uuid.UUID, ok bool) {
	userID, hasUser := ctxUserID(r.Context())
	if !hasUser {
		h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
		return uuid.Nil, uuid.Nil, false
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
		return uuid.Nil, uuid.Nil, false
	}
	return userID, recipeID, true
}
