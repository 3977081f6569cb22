package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ingredientHandler struct {
	responder      Responder
	logger         zerolog.Logger
	ingredientRepo *database.IngredientRepo
}

func newIngredientHandler(ingredientRepo *database.IngredientRepo) ingredientHandler {
	logger := log.With().Str("handlerName", "ingredientHandler").Logger()

	return ingredientHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		ingredientRepo: ingredientRepo,
	}
}

// listIngredients supports the reference-data lookup with an optional
// name prefix filter, used by the recipe form autocomplete.
func (h ingredientHandler) listIngredients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := parsePagination(r)
		ingredients, err := h.ingredientRepo.FindAll(r.URL.Query().Get("name"), limit, offset)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("find", "ingredients", err))
			return
		}
		h.responder.WriteJSON(w, ingredients)
	}
}

func (h ingredientHandler) getIngredient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid ingredientID"))
			return
		}
		ingredient, err := h.ingredientRepo.FindByID(ingredientID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "ingredient", err))
			return
		}
		h.responder.WriteJSON(w, ingredient)
	}
}
