package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// EscalationStatus is the state of a legal escalation request.
type EscalationStatus string

const (
	EscalationPending    EscalationStatus = "PENDING"
	EscalationInProgress EscalationStatus = "IN_PROGRESS"
	EscalationCompleted  EscalationStatus = "COMPLETED"
	EscalationCancelled  EscalationStatus = "CANCELLED"
)

// ParseEscalationStatus accepts any casing.
func ParseEscalationStatus(s string) (EscalationStatus, bool) {
	switch st := EscalationStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case EscalationPending, EscalationInProgress, EscalationCompleted, EscalationCancelled:
		return st, true
	default:
		return "", false
	}
}

// IsOpen reports whether the escalation is still being worked on.
func (s EscalationStatus) IsOpen() bool {
	return s == EscalationPending || s == EscalationInProgress
}

// Escalation is a consumer's request to take a complaint to court through
// the portal's legal assistance.
type Escalation struct {
	ID             string           `gorm:"primaryKey" json:"id"`
	ComplaintID    string           `gorm:"not null;index" json:"complaint_id"`
	UserID         string           `gorm:"not null;index" json:"user_id"`
	Status         EscalationStatus `gorm:"type:text;not null;index" json:"status"`
	Reason         string           `gorm:"type:text;not null" json:"reason"`
	AdditionalInfo string           `gorm:"type:text" json:"additional_info,omitempty"`
	Template       string           `gorm:"not null" json:"template"`
	Complexity     string           `gorm:"type:text;not null" json:"complexity"`
	EstimatedCost  float64          `json:"estimated_cost"`
	EstimatedTime  string           `json:"estimated_time"`
	NextSteps      pq.StringArray   `gorm:"type:text[]" json:"next_steps"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (e *Escalation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
