package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types published to subscribers of complaint events.
const (
	NotificationComplaintCreated     = "complaint.created"
	NotificationComplaintUpdated     = "complaint.updated"
	NotificationComplaintDistributed = "complaint.distributed"
	NotificationEscalationCreated    = "escalation.created"
	NotificationEscalationUpdated    = "escalation.updated"
)

// Notification is the payload published on the complaint events channel.
// ID identifies the event across every subscriber.
type Notification struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	UserID      string         `json:"user_id"`
	ComplaintID string         `json:"complaint_id"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// UserNotification is a delivered notification kept in a user's inbox.
type UserNotification struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	EventID     string            `gorm:"not null;uniqueIndex" json:"-"`
	UserID      string            `gorm:"not null;index:idx_inbox_user_read" json:"user_id"`
	ComplaintID string            `gorm:"index" json:"complaint_id,omitempty"`
	Type        string            `gorm:"type:text;not null" json:"type"`
	Title       string            `gorm:"not null" json:"title"`
	Message     string            `gorm:"type:text" json:"message"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	Read        bool              `gorm:"not null;default:false;index:idx_inbox_user_read" json:"read"`
	CreatedAt   time.Time         `json:"created_at"`
}
