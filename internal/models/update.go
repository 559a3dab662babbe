package models

import (
	"time"

	"gorm.io/datatypes"
)

// Update is an append-only event on a complaint. Insertion order is the
// order of the auto-increment ID.
type Update struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ComplaintID string            `gorm:"not null;index" json:"complaint_id"`
	Message     string            `gorm:"type:text;not null" json:"message"`
	Source      UpdateSource      `gorm:"type:text;not null" json:"source"`
	Action      string            `gorm:"type:text" json:"action,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
