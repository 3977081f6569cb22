package models

import "github.com/google/uuid"

// Tag is shared reference data attached to recipes. Never deleted as a
// side effect of recipe deletion.
type Tag struct {
	ID     uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name   string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Colour string    `json:"colour" db:"colour" gorm:"type:varchar(7);not null;uniqueIndex"`
	Slug   string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
}
