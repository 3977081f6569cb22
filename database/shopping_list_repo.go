package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingListRow is one aggregated purchase line: every RecipeIngredient
// belonging to a recipe in the user's cart, merged by ingredient
// identity and summed.
type ShoppingListRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}

type ShoppingListRepo struct {
	db *gorm.DB
}

func NewShoppingListRepo(db *gorm.DB) *ShoppingListRepo {
	return &ShoppingListRepo{db}
}

// Aggregate groups by (name, measurement_unit) rather than ingredient
// id so two differently-keyed but identical reference rows still merge.
// Ordered alphabetically by name then unit, which keeps the output
// deterministic for a fixed cart. A read-only query; safe on a replica.
func (r *ShoppingListRepo) Aggregate(userID uuid.UUID) ([]ShoppingListRow, error) {
	var rows []ShoppingListRow
	err := r.db.
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&rows).Error
	return rows, err
}
