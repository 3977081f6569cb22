package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that authors recipes and owns relations
// (favorites, cart entries, subscriptions) to other content.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Username     string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"type:text;not null;default:''"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"type:text;not null;default:''"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	IsAdmin      bool      `json:"-" db:"is_admin" gorm:"not null;default:false"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
