package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rpupo63/foodgram-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder  Responder
	logger     zerolog.Logger
	userRepo   *database.UserRepo
	recipeRepo *database.RecipeRepo
	relations  *services.RelationService
	presenter  Presenter
}

func newUserHandler(userRepo *database.UserRepo, recipeRepo *database.RecipeRepo, relations *services.RelationService, presenter Presenter) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
		relations:  relations,
		presenter:  presenter,
	}
}

// listUsers returns a page of user profiles
func (h userHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, _ := ctxUserID(r.Context())
		limit, offset := parsePagination(r)

		users, err := h.userRepo.FindAll(limit, offset)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("find", "users", err))
			return
		}

		responses, err := h.presenter.Users(viewerID, users)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("load flags for", "users", err))
			return
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"results": responses,
			"count":   len(responses),
		})
	}
}

// getUser returns one profile with the viewer's subscription flag
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}
		h.respondProfile(w, r, userID)
	}
}

// me returns the authenticated user's own profile
func (h userHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, ok := ctxUserID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}
		h.respondProfile(w, r, viewerID)
	}
}

func (h userHandler) respondProfile(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	viewerID, _ := ctxUserID(r.Context())

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		h.responder.WriteError(w, errs.FromDatabase("find", "user", err))
		return
	}

	responses, err := h.presenter.Users(viewerID, []*models.User{user})
	if err != nil {
		h.responder.WriteError(w, errs.NewStorageError("load flags for", "user", err))
		return
	}
	h.responder.WriteJSON(w, responses[0])
}

// subscribe follows the target author on POST
func (h userHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscriberID, authorID, ok := h.subscriptionArgs(w, r)
		if !ok {
			return
		}

		if err := h.relations.Add(models.RelationSubscription, subscriberID, authorID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		author, err := h.userRepo.FindByID(authorID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "user", err))
			return
		}
		recipes, counts, err := h.authorRecipes([]uuid.UUID{authorID})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, buildSubscriptionResponse(author, recipes[authorID], counts[authorID], 0))
	}
}

// unsubscribe removes the follow on DELETE
func (h userHandler) unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscriberID, authorID, ok := h.subscriptionArgs(w, r)
		if !ok {
			return
		}

		if err := h.relations.Remove(models.RelationSubscription, subscriberID, authorID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// subscriptions lists the authors the viewer follows with recipe
// previews. The recipes_limit query param caps previews per author.
func (h userHandler) subscriptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, ok := ctxUserID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}
		limit, offset := parsePagination(r)
		recipesLimit, _ := strconv.Atoi(r.URL.Query().Get("recipes_limit"))

		authors, err := h.userRepo.FindSubscribedAuthors(viewerID, limit, offset)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("find", "subscriptions", err))
			return
		}

		authorIDs := make([]uuid.UUID, len(authors))
		for i, author := range authors {
			authorIDs[i] = author.ID
		}
		recipes, counts, err := h.authorRecipes(authorIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		responses := make([]SubscriptionResponse, len(authors))
		for i, author := range authors {
			responses[i] = buildSubscriptionResponse(author, recipes[author.ID], counts[author.ID], recipesLimit)
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"results": responses,
			"count":   len(responses),
		})
	}
}

// authorRecipes fetches recipes and totals for a set of authors in two
// queries, grouped in memory for the presenter.
func (h userHandler) authorRecipes(authorIDs []uuid.UUID) (map[uuid.UUID][]*models.Recipe, map[uuid.UUID]int64, error) {
	if len(authorIDs) == 0 {
		return map[uuid.UUID][]*models.Recipe{}, map[uuid.UUID]int64{}, nil
	}
	recipes, err := h.recipeRepo.FindByAuthors(authorIDs)
	if err != nil {
		return nil, nil, errs.NewStorageError("find", "recipes", err)
	}
	grouped := make(map[uuid.UUID][]*models.Recipe)
	for _, recipe := range recipes {
		grouped[recipe.AuthorID] = append(grouped[recipe.AuthorID], recipe)
	}
	counts, err := h.userRepo.CountRecipes(authorIDs)
	if err != nil {
		return nil, nil, errs.NewStorageError("count", "recipes", err)
	}
	return grouped, counts, nil
}

func (h userHandler) subscriptionArgs(w http.ResponseWriter, r *http.Request) (subscriberID, authorID uuid.UUID, ok bool) {
	subscriberID, hasUser := ctxUserID(r.Context())
	if !hasUser {
		h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
		return uuid.Nil, uuid.Nil, false
	}
	authorID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
		return uuid.Nil, uuid.Nil, false
	}
	return subscriberID, authorID, true
}
