package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
)

// RelationRepo is the single storage path for all three toggle
// relations. Every kind goes through the same create/delete code with
// the kind picking the table, so the duplicate-check semantics cannot
// drift between favorite, cart and subscription.
type RelationRepo struct {
	db *gorm.DB
}

func NewRelationRepo(db *gorm.DB) *RelationRepo {
	return &RelationRepo{db}
}

func (r *RelationRepo) row(kind models.RelationKind, userID, targetID uuid.UUID) (interface{}, error) {
	switch kind {
	case models.RelationFavorite:
		return &models.Favorite{UserID: userID, RecipeID: targetID}, nil
	case models.RelationShoppingCart:
		return &models.ShoppingCartEntry{UserID: userID, RecipeID: targetID}, nil
	case models.RelationSubscription:
		return &models.Subscription{SubscriberID: userID, AuthorID: targetID}, nil
	}
	return nil, fmt.Errorf("unknown relation kind %q", kind)
}

func (r *RelationRepo) pairQuery(kind models.RelationKind, userID, targetID uuid.UUID) (*gorm.DB, error) {
	switch kind {
	case models.RelationFavorite:
		return r.db.Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", userID, targetID), nil
	case models.RelationShoppingCart:
		return r.db.Model(&models.ShoppingCartEntry{}).
			Where("user_id = ? AND recipe_id = ?", userID, targetID), nil
	case models.RelationSubscription:
		return r.db.Model(&models.Subscription{}).
			Where("subscriber_id = ? AND author_id = ?", userID, targetID), nil
	}
	return nil, fmt.Errorf("unknown relation kind %q", kind)
}

// Add inserts one relation row. No existence pre-check: the composite
// unique index decides, and a duplicate surfaces as
// gorm.ErrDuplicatedKey regardless of how the race interleaved.
func (r *RelationRepo) Add(kind models.RelationKind, userID, targetID uuid.UUID) error {
	row, err := r.row(kind, userID, targetID)
	if err != nil {
		return err
	}
	return r.db.Create(row).Error
}

// Remove deletes the relation row for the pair and reports how many
// rows actually went away. Zero means the pair was never there.
func (r *RelationRepo) Remove(kind models.RelationKind, userID, targetID uuid.UUID) (int64, error) {
	query, err := r.pairQuery(kind, userID, targetID)
	if err != nil {
		return 0, err
	}
	var result *gorm.DB
	switch kind {
	case models.RelationFavorite:
		result = query.Delete(&models.Favorite{})
	case models.RelationShoppingCart:
		result = query.Delete(&models.ShoppingCartEntry{})
	default:
		result = query.Delete(&models.Subscription{})
	}
	return result.RowsAffected, result.Error
}

// Exists reports whether the pair is present for the kind.
func (r *RelationRepo) Exists(kind models.RelationKind, userID, targetID uuid.UUID) (bool, error) {
	query, err := r.pairQuery(kind, userID, targetID)
	if err != nil {
		return false, err
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecipeFlags returns, for one user, which of the given recipes are
// favorited and which are in the shopping cart. One query per relation
// kind regardless of page size.
func (r *RelationRepo) RecipeFlags(userID uuid.UUID, recipeIDs []uuid.UUID) (favorited, inCart map[uuid.UUID]bool, err error) {
	favorited = make(map[uuid.UUID]bool)
	inCart = make(map[uuid.UUID]bool)
	if len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	var favIDs []uuid.UUID
	err = r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &favIDs).Error
	if err != nil {
		return nil, nil, err
	}
	for _, id := range favIDs {
		favorited[id] = true
	}

	var cartIDs []uuid.UUID
	err = r.db.Model(&models.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &cartIDs).Error
	if err != nil {
		return nil, nil, err
	}
	for _, id := range cartIDs {
		inCart[id] = true
	}
	return favorited, inCart, nil
}

// SubscriptionFlags returns which of the given authors the subscriber
// follows.
func (r *RelationRepo) SubscriptionFlags(subscriberID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	subscribed := make(map[uuid.UUID]bool)
	if len(authorIDs) == 0 {
		return subscribed, nil
	}
	var ids []uuid.UUID
	err := r.db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", subscriberID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}
