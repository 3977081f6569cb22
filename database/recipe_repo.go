package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db}
}

// RecipeFilter narrows FindAll. Zero values mean "no filter".
// FavoritedBy and InCartOf restrict the listing to recipes the given
// user has favorited or put in the cart.
type RecipeFilter struct {
	AuthorID    uuid.UUID
	TagSlugs    []string
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
	Limit       int
	Offset      int
}

// FindAll returns recipes newest first with their full graph preloaded.
// Tag and relation filters go through IN subqueries so a recipe
// matching several of the requested tags still appears once.
func (r *RecipeRepo) FindAll(filter RecipeFilter) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	query := r.db.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("pub_date DESC")
	if filter.AuthorID != uuid.Nil {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.FavoritedBy != uuid.Nil {
		query = query.Where("recipes.id IN (?)",
			r.db.Model(&models.Favorite{}).
				Select("recipe_id").
				Where("user_id = ?", filter.FavoritedBy))
	}
	if filter.InCartOf != uuid.Nil {
		query = query.Where("recipes.id IN (?)",
			r.db.Model(&models.ShoppingCartEntry{}).
				Select("recipe_id").
				Where("user_id = ?", filter.InCartOf))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Offset(filter.Offset).Find(&recipes).Error
	return recipes, err
}

// FindByID returns a recipe with author, tags and weighted ingredients
func (r *RecipeRepo) FindByID(id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindByAuthors returns recipes for a set of authors, newest first.
// Feeds the subscription previews.
func (r *RecipeRepo) FindByAuthors(authorIDs []uuid.UUID) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.db.
		Where("author_id IN ?", authorIDs).
		Order("pub_date DESC").
		Find(&recipes).Error
	return recipes, err
}

// AddGraph persists the recipe row, its tag associations and its
// weighted ingredient rows in one transaction. Either the whole graph
// commits or none of it does. The (author, name) and
// (recipe, ingredient) unique indexes fire inside the same transaction,
// so a constraint race rolls the entire graph back.
func (r *RecipeRepo) AddGraph(recipe *models.Recipe, tags []models.Tag, items []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Append(&tags); err != nil {
			return err
		}
		for i := range items {
			items[i].RecipeID = recipe.ID
		}
		return tx.Create(&items).Error
	})
}

// ReplaceGraph is the update counterpart of AddGraph: scalar fields are
// rewritten and both association sets are fully replaced, not merged.
// Old ingredient rows are deleted first so no stale row survives.
func (r *RecipeRepo) ReplaceGraph(recipe *models.Recipe, tags []models.Tag, items []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Recipe{ID: recipe.ID}).
			Select("name", "image", "text", "cooking_time").
			Updates(recipe).Error
		if err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].RecipeID = recipe.ID
		}
		return tx.Create(&items).Error
	})
}

// Delete removes a recipe. Junction rows, favorites and cart entries go
// with it through the storage-level ON DELETE CASCADE constraints.
func (r *RecipeRepo) Delete(id uuid.UUID) (int64, error) {
	result := r.db.Delete(&models.Recipe{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
