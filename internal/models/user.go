package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a signed-in member of the catalog
type User struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `gorm:"not null" json:"name"`
	Email     *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Image     *string   `json:"image,omitempty"`
}
