package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Update actions written by the portal itself. Only the creation event is
// ignored by the response rate.
const (
	ActionCreated     = "created"
	ActionDistributed = "distributed"
)

// Complaint is one consumer grievance against a company.
// Complaints are never deleted, only moved between statuses.
type Complaint struct {
	ID          string   `gorm:"primaryKey" json:"id"`
	UserID      string   `gorm:"not null;index" json:"user_id"`
	CompanyID   string   `gorm:"not null;index:idx_company_created" json:"company_id"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Category    Category `gorm:"type:text;not null;index" json:"category"`
	Priority    Priority `gorm:"type:text;not null" json:"priority"`
	Status      Status   `gorm:"type:text;not null;index" json:"status"`
	Protocol    string   `gorm:"uniqueIndex" json:"protocol"`

	// Channels holds the external channels the complaint was sent to, or the
	// recommended ones before distribution.
	Channels pq.StringArray `gorm:"type:text[]" json:"channels"`
	// Tracking holds submission receipts and tracking URLs from distribution.
	Tracking  datatypes.JSONMap `gorm:"type:jsonb" json:"tracking,omitempty"`
	Documents pq.StringArray    `gorm:"type:text[]" json:"documents"`

	CreatedAt     time.Time  `gorm:"index:idx_company_created" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	EstimatedDate *time.Time `json:"estimated_date,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`

	Updates []Update `gorm:"foreignKey:ComplaintID" json:"updates,omitempty"`
}

// BeforeCreate assigns a UUID when the complaint has no ID yet.
func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// IsResolved reports whether the complaint reached RESOLVED.
func (c *Complaint) IsResolved() bool {
	return c.Status == StatusResolved
}

// ResolutionDays returns the fractional number of days between creation and
// resolution. ok is false unless the complaint is resolved and carries a
// resolution timestamp.
func (c *Complaint) ResolutionDays() (days float64, ok bool) {
	if !c.IsResolved() || c.ResolvedAt == nil {
		return 0, false
	}
	return c.ResolvedAt.Sub(c.CreatedAt).Hours() / 24, true
}

// HasResponse reports whether anything happened on the complaint besides
// its creation event.
func (c *Complaint) HasResponse() bool {
	for _, u := range c.Updates {
		if u.Action != ActionCreated {
			return true
		}
	}
	return false
}
