package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindAll returns users ordered by join date
func (r *UserRepo) FindAll(limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.Order("date_joined").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

// FindByID returns a user by its ID
func (r *UserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a user by email, used by the login flow
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user. Username and email uniqueness is enforced by
// the database indexes.
func (r *UserRepo) Add(user *models.User) error {
	return r.db.Create(user).Error
}

// FindSubscribedAuthors returns the authors the subscriber follows,
// ordered by when the subscription was created.
func (r *UserRepo) FindSubscribedAuthors(subscriberID uuid.UUID, limit, offset int) ([]*models.User, error) {
	var authors []*models.User
	err := r.db.
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at").
		Limit(limit).Offset(offset).
		Find(&authors).Error
	return authors, err
}

// CountRecipes returns how many recipes each of the given authors has
// published.
func (r *UserRepo) CountRecipes(authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		AuthorID uuid.UUID
		Total    int64
	}
	var rows []row
	err := r.db.Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.AuthorID] = r.Total
	}
	return counts, nil
}
