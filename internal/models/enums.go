package models

import "strings"

// Category is the business sector a company and its complaints belong to.
type Category string

const (
	CategoryTelecom   Category = "telecom"
	CategoryBanking   Category = "banking"
	CategoryRetail    Category = "retail"
	CategoryHealth    Category = "health"
	CategoryEducation Category = "education"
	// CategoryUnknown covers every category string the portal has no channel mapping for.
	CategoryUnknown Category = "unknown"
)

// KnownCategories lists every category with its own channel mapping.
var KnownCategories = []Category{
	CategoryTelecom,
	CategoryBanking,
	CategoryRetail,
	CategoryHealth,
	CategoryEducation,
}

// ParseCategory normalizes s and reports whether it names a known category.
// Unrecognized values map to CategoryUnknown.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range KnownCategories {
		if c == known {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// Priority is the urgency a consumer assigns to a complaint.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ParsePriority accepts any casing. Unknown values fall back to MEDIUM, which
// carries no scoring adjustment.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, true
	default:
		return PriorityMedium, false
	}
}

// IsEscalated reports whether the priority pulls in escalation channels.
func (p Priority) IsEscalated() bool {
	return p == PriorityHigh || p == PriorityUrgent
}

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusAnalysis    Status = "ANALYSIS"
	StatusWaiting     Status = "WAITING"
	StatusResponded   Status = "RESPONDED"
	StatusResolved    Status = "RESOLVED"
	StatusNotResolved Status = "NOT_RESOLVED"
	StatusCancelled   Status = "CANCELLED"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusAnalysis, StatusWaiting, StatusResponded, StatusResolved, StatusNotResolved, StatusCancelled:
		return st, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusNotResolved || s == StatusCancelled
}

// UpdateSource tags who produced a complaint Update.
type UpdateSource string

const (
	SourceSystem  UpdateSource = "system"
	SourceUser    UpdateSource = "user"
	SourceCompany UpdateSource = "company"
	SourceChannel UpdateSource = "channel"
)

// ParseUpdateSource validates a source tag.
func ParseUpdateSource(s string) (UpdateSource, bool) {
	switch src := UpdateSource(strings.ToLower(strings.TrimSpace(s))); src {
	case SourceSystem, SourceUser, SourceCompany, SourceChannel:
		return src, true
	default:
		return "", false
	}
}

// Trend classifies recent resolution performance.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)
