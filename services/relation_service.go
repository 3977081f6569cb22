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

// RelationService is the only mutation path for favorites, cart entries
// and subscriptions. All three kinds share one add/remove flow with the
// kind as a parameter; the per-kind composite unique index is the race
// arbiter, so two concurrent Adds for the same pair can both pass the
// target lookup and still only one insert commits.
type RelationService struct {
	logger       zerolog.Logger
	relationRepo *database.RelationRepo
	recipeRepo   *database.RecipeRepo
	userRepo     *database.UserRepo
}

func NewRelationService(relationRepo *database.RelationRepo, recipeRepo *database.RecipeRepo, userRepo *database.UserRepo) *RelationService {
	logger := log.With().Str("serviceName", "relationService").Logger()

	return &RelationService{
		logger:       logger,
		relationRepo: relationRepo,
		recipeRepo:   recipeRepo,
		userRepo:     userRepo,
	}
}

// Add creates the relation row for (user, target). The target must
// already exist; a subscription to oneself is rejected before any
// lookup; an existing pair fails with Conflict and no duplicate row is
// created.
func (s *RelationService) Add(kind models.RelationKind, userID, targetID uuid.UUID) error {
	if kind == models.RelationSubscription && userID == targetID {
		return errs.NewInvalidOperationError("subscribing to yourself is not allowed")
	}

	if err := s.checkTarget(kind, targetID); err != nil {
		return err
	}

	if err := s.relationRepo.Add(kind, userID, targetID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictError(string(kind) + " already added")
		}
		// The target can vanish between the lookup and the insert;
		// the foreign key reports it the same way the lookup would have.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return errs.NewNotFoundError(s.targetName(kind) + " not found")
		}
		return errs.NewStorageError("create", string(kind), err)
	}

	s.logger.Info().
		Str("kind", string(kind)).
		Str("userID", userID.String()).
		Str("targetID", targetID.String()).
		Msg("relation added")
	return nil
}

// Remove deletes the relation row for (user, target). A missing pair is
// an error, not a silent no-op.
func (s *RelationService) Remove(kind models.RelationKind, userID, targetID uuid.UUID) error {
	if err := s.checkTarget(kind, targetID); err != nil {
		return err
	}

	deleted, err := s.relationRepo.Remove(kind, userID, targetID)
	if err != nil {
		return errs.NewStorageError("delete", string(kind), err)
	}
	if deleted == 0 {
		return errs.NewNotFoundError(string(kind) + " not present or already removed")
	}

	s.logger.Info().
		Str("kind", string(kind)).
		Str("userID", userID.String()).
		Str("targetID", targetID.String()).
		Msg("relation removed")
	return nil
}

func (s *RelationService) checkTarget(kind models.RelationKind, targetID uuid.UUID) error {
	var err error
	if kind == models.RelationSubscription {
		_, err = s.userRepo.FindByID(targetID)
	} else {
		_, err = s.recipeRepo.FindByID(targetID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFoundError(s.targetName(kind) + " not found")
		}
		return errs.NewStorageError("find", s.targetName(kind), err)
	}
	return nil
}

func (s *RelationService) targetName(kind models.RelationKind) string {
	if kind == models.RelationSubscription {
		return "user"
	}
	return "recipe"
}
