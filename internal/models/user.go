package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered consumer. Authentication lives outside this service;
// the record exists so complaints can reference their owner.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Phone    string `json:"phone,omitempty"`
	Document string `json:"-"` // CPF
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
