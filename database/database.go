package database

import (
	"fmt"

	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	userRepo         *UserRepo
	tagRepo          *TagRepo
	ingredientRepo   *IngredientRepo
	recipeRepo       *RecipeRepo
	relationRepo     *RelationRepo
	shoppingListRepo *ShoppingListRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:         NewUserRepo(db),
		tagRepo:          NewTagRepo(db),
		ingredientRepo:   NewIngredientRepo(db),
		recipeRepo:       NewRecipeRepo(db),
		relationRepo:     NewRelationRepo(db),
		shoppingListRepo: NewShoppingListRepo(db),
	}
}

// Connect opens the primary connection. TranslateError is required: the
// services treat gorm.ErrDuplicatedKey as the arbiter for every
// unique-pair constraint, so constraint races surface as Conflict
// instead of a raw driver error. An optional read replica handles the
// list and aggregate queries.
func Connect(dsn, replicaDSN string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	cfg.TranslateError = true

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDatabaseConnection, err)
	}

	if replicaDSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas:          []gorm.Dialector{postgres.Open(replicaDSN)},
			TraceResolverMode: true,
		}))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrDatabaseConnection, err)
		}
	}

	return db, nil
}

// AutoMigrate creates tables, foreign keys and the composite unique
// indexes that back every toggle-relation invariant.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartEntry{},
		&models.Subscription{},
	)
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) IngredientRepo() *IngredientRepo {
	return d.ingredientRepo
}

func (d Database) RecipeRepo() *RecipeRepo {
	return d.recipeRepo
}

func (d Database) RelationRepo() *RelationRepo {
	return d.relationRepo
}

func (d Database) ShoppingListRepo() *ShoppingListRepo {
	return d.shoppingListRepo
}
