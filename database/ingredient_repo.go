package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db}
}

// FindAll returns ingredients, optionally filtered by a name prefix.
func (r *IngredientRepo) FindAll(namePrefix string, limit, offset int) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	query := r.db.Order("name")
	if namePrefix != "" {
		query = query.Where("name ILIKE ?", namePrefix+"%")
	}
	err := query.Limit(limit).Offset(offset).Find(&ingredients).Error
	return ingredients, err
}

// FindByID returns an ingredient by its ID
func (r *IngredientRepo) FindByID(id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.First(&ingredient, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// FindByIDs resolves a set of ingredient IDs. Callers compare the result
// count against the request to detect unknown IDs.
func (r *IngredientRepo) FindByIDs(ids []uuid.UUID) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, err
}

// AddMissing bulk-inserts reference ingredients, skipping names that are
// already present. Used by the CSV import. Returns how many rows were
// actually inserted.
func (r *IngredientRepo) AddMissing(ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&ingredients)
	return result.RowsAffected, result.Error
}
