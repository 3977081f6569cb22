package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationKind is the closed set of toggle relations a user can hold.
// Favorite and ShoppingCart target a recipe, Subscription targets
// another user.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
	RelationSubscription RelationKind = "subscription"
)

// Toggle relations: rows in these tables are only ever created and
// deleted, never updated. Each carries a composite unique index so the
// database, not the service, is the final arbiter against duplicates.

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

// ShoppingCartEntry selects a recipe into a user's shopping cart. Same
// uniqueness discipline as Favorite, independent lifecycle.
type ShoppingCartEntry struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

// Subscription makes the subscriber follow the author's recipes.
// Self-subscription is rejected in the service layer; the unique index
// guards against duplicates.
type Subscription struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	SubscriberID uuid.UUID `json:"subscriber_id" db:"subscriber_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_subscription_pair"`
	AuthorID     uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Subscriber   User      `json:"-" gorm:"foreignKey:SubscriberID;references:ID;constraint:OnDelete:CASCADE"`
	Author       User      `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}
