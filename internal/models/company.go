package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is a business that consumers file complaints against.
type Company struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CNPJ      string    `gorm:"uniqueIndex" json:"cnpj,omitempty"`
	Category  Category  `gorm:"type:text;not null;index" json:"category"`
	CreatedAt time.Time `json:"created_at"`

	Complaints []Complaint `gorm:"foreignKey:CompanyID" json:"-"`
}

// BeforeCreate assigns a UUID when the company has no ID yet.
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
