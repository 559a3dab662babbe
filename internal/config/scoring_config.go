package config

import "time"

const (
	// Channel scoring
	RecommendThreshold   = 70
	UrgentFastLimitDays  = 60
	UrgentBonus          = 20
	UrgentPenalty        = -10
	HighFastLimitDays    = 90
	HighBonus            = 15
	HighPenalty          = -5
	FastResolutionDays   = 30
	MediumResolutionDays = 90

	// Reputation weights
	WeightResolutionRate = 0.35
	WeightResolutionTime = 0.25
	WeightSatisfaction   = 0.20
	WeightVolume         = 0.10
	WeightRepeat         = 0.05
	WeightResponse       = 0.05

	// Reputation sub-scores
	ResolutionTimePenaltyPerDay = 3
	SpeedPenaltyPerDay          = 2
	VolumePenaltyPerComplaint   = 2
	SatisfactionResolutionShare = 0.6
	SatisfactionSpeedShare      = 0.4

	// Trend
	TrendMinComplaints = 5
	TrendThreshold     = 0.05
	TrendRecentWindow  = 30 * 24 * time.Hour
	TrendOlderWindow   = 60 * 24 * time.Hour

	// Category ranking
	RankingWindow = 90 * 24 * time.Hour
)

// Badge names are shown verbatim to consumers.
const (
	BadgeExcellent  = "Excelente"
	BadgeGood       = "Bom"
	BadgeRegular    = "Regular"
	BadgeResolutive = "Resolutivo"
	BadgeFast       = "Rápido"
	BadgeVeryFast   = "Muito Rápido"
)

// Badge thresholds
const (
	ExcellentMinScore  = 90
	GoodMinScore       = 75
	RegularMinScore    = 60
	ResolutiveMinRate  = 0.9
	FastMaxAvgDays     = 7
	VeryFastMaxAvgDays = 3
)

// Mediation defaults used when no advisory data is available.
const (
	DefaultEstimatedSuccess    = 75
	DefaultEstimatedResolution = "30 dias"
	PrimaryChannelCount        = 3
	DefaultTopCompaniesLimit   = 10
	MaxTopCompaniesLimit       = 100
)
