package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is owned by its author. The (author_id, name) pair is unique so
// an author cannot publish the same recipe twice. Tag associations and
// ingredient rows cascade away with the recipe.
type Recipe struct {
	ID          uuid.UUID          `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	AuthorID    uuid.UUID          `json:"author_id" db:"author_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_author_name"`
	Name        string             `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_recipe_author_name"`
	Image       string             `json:"image" db:"image" gorm:"type:text;not null;default:''"`
	Text        string             `json:"text" db:"text" gorm:"type:text;not null"`
	CookingTime int                `json:"cooking_time" db:"cooking_time" gorm:"type:integer;not null"`
	PubDate     time.Time          `json:"pub_date" db:"pub_date" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Author      User               `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredient links a recipe to one ingredient with a weight.
// An ingredient appears at most once per recipe.
type RecipeIngredient struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	RecipeID     uuid.UUID  `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uuid.UUID  `json:"ingredient_id" db:"ingredient_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int        `json:"amount" db:"amount" gorm:"type:integer;not null"`
	Ingredient   Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;references:ID;constraint:OnDelete:CASCADE"`
}
