package models

import "github.com/google/uuid"

// Ingredient is shared reference data, typically loaded once from a CSV
// dump. Recipes point at it through RecipeIngredient.
type Ingredient struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name            string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	MeasurementUnit string    `json:"measurement_unit" db:"measurement_unit" gorm:"type:text;not null"`
}
