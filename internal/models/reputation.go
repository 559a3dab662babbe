package models

import (
	"time"

	"github.com/lib/pq"
)

// CategoryRanking is a company's position among same-category peers.
type CategoryRanking struct {
	Category       Category `json:"category"`
	Rank           int      `json:"rank"`
	TotalCompanies int      `json:"total_companies"`
}

// CompanyReputation is a projection of a company's complaint history.
// It is always safe to discard and recompute; the persisted row is only the
// last known snapshot.
type CompanyReputation struct {
	CompanyID             string           `gorm:"primaryKey" json:"company_id"`
	CompanyName           string           `gorm:"-" json:"company_name"`
	OverallScore          int              `json:"overall_score"`
	TotalComplaints       int              `json:"total_complaints"`
	ResolvedComplaints    int              `json:"resolved_complaints"`
	PendingComplaints     int              `json:"pending_complaints"`
	AverageResolutionTime int              `json:"average_resolution_time"`
	ResponseRate          int              `json:"response_rate"`
	SatisfactionScore     int              `json:"satisfaction_score"`
	Trend                 Trend            `gorm:"type:text" json:"trend"`
	Badges                pq.StringArray   `gorm:"type:text[]" json:"badges"`
	CategoryRanking       *CategoryRanking `gorm:"type:jsonb;serializer:json" json:"category_ranking,omitempty"`
	LastUpdated           time.Time        `json:"last_updated"`
}

// HasBadge reports whether the snapshot carries the given badge.
func (r *CompanyReputation) HasBadge(badge string) bool {
	for _, b := range r.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// ReputationHistory is one dated overall score sample for a company.
type ReputationHistory struct {
	ID                 uint      `gorm:"primaryKey" json:"-"`
	CompanyID          string    `gorm:"not null;index:idx_history_company_date" json:"company_id"`
	Date               time.Time `gorm:"not null;index:idx_history_company_date" json:"date"`
	Score              int       `json:"score"`
	TotalComplaints    int       `json:"total_complaints"`
	ResolvedComplaints int       `json:"resolved_complaints"`
}
