// Package reputation projects a company's complaint history into a 0-100
// reputation snapshot and ranks companies against their category peers.
package reputation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"centraldoconsumidor/backend/internal/config"
	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/models"
	"centraldoconsumidor/backend/internal/storage"
)

// Store is the read side of the complaint record store used by the calculator.
type Store interface {
	GetCompanyByID(ctx context.Context, companyID string) (*models.Company, error)
	ListComplaintsByCompany(ctx context.Context, companyID string) ([]models.Complaint, error)
	ListCompaniesByCategorySince(ctx context.Context, category models.Category, since time.Time) ([]models.Company, error)
}

// Calculator computes reputation snapshots. It holds no mutable state and is
// safe for concurrent use.
type Calculator struct {
	store Store
	now   func() time.Time
	log   *slog.Logger
}

// NewCalculator creates a Calculator. now defaults to time.Now.
func NewCalculator(store Store, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{
		store: store,
		now:   now,
		log:   logging.New("reputation"),
	}
}

// CalculateReputation computes the reputation of a company over its full
// complaint history. An unknown company yields storage.ErrNotFound as is.
func (c *Calculator) CalculateReputation(ctx context.Context, companyID string) (*models.CompanyReputation, error) {
	company, err := c.store.GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get company %s: %w", companyID, err)
	}
	return c.calculateFor(ctx, company)
}

func (c *Calculator) calculateFor(ctx context.Context, company *models.Company) (*models.CompanyReputation, error) {
	now := c.now()
	rep, err := c.snapshot(ctx, company, now)
	if err != nil {
		return nil, err
	}

	ranking, err := c.rankInCategory(ctx, company.ID, company.Category, now)
	if err != nil {
		c.log.Warn("category ranking unavailable", "company_id", company.ID, "error", err)
	}
	rep.CategoryRanking = ranking
	return rep, nil
}

// snapshot computes everything but the category ranking.
func (c *Calculator) snapshot(ctx context.Context, company *models.Company, now time.Time) (*models.CompanyReputation, error) {
	complaints, err := c.store.ListComplaintsByCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("list complaints of %s: %w", company.ID, err)
	}

	m := summarize(complaints)

	rep := &models.CompanyReputation{
		CompanyID:             company.ID,
		CompanyName:           company.Name,
		OverallScore:          m.overallScore(),
		TotalComplaints:       m.total,
		ResolvedComplaints:    m.resolved,
		PendingComplaints:     m.total - m.resolved,
		AverageResolutionTime: round(m.avgResolutionDays),
		ResponseRate:          round(m.responseRate() * 100),
		SatisfactionScore:     round(m.satisfaction()),
		Trend:                 trend(complaints, now),
		LastUpdated:           now,
	}
	rep.Badges = m.badges(rep.OverallScore)
	return rep, nil
}

// metrics are the raw aggregates of one company's complaints.
type metrics struct {
	total     int
	resolved  int
	responded int

	// avgResolutionDays is the mean over resolved complaints carrying a
	// resolution timestamp; timed counts them.
	avgResolutionDays float64
	timed             int
}

func summarize(complaints []models.Complaint) metrics {
	var m metrics
	var totalDays float64

	for i := range complaints {
		cpl := &complaints[i]
		m.total++
		if cpl.IsResolved() {
			m.resolved++
		}
		if days, ok := cpl.ResolutionDays(); ok {
			totalDays += days
			m.timed++
		}
		if cpl.HasResponse() {
			m.responded++
		}
	}

	if m.timed > 0 {
		m.avgResolutionDays = totalDays / float64(m.timed)
	}
	return m
}

func (m metrics) resolutionRate() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.resolved) / float64(m.total)
}

func (m metrics) responseRate() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.responded) / float64(m.total)
}

// satisfaction blends the unscaled resolution rate with the speed score.
func (m metrics) satisfaction() float64 {
	speed := math.Max(0, 100-m.avgResolutionDays*config.SpeedPenaltyPerDay)
	return m.resolutionRate()*config.SatisfactionResolutionShare + speed*config.SatisfactionSpeedShare
}

// repeatComplaintRate is not tracked yet and always 0.
func (m metrics) repeatComplaintRate() float64 {
	return 0
}

func (m metrics) overallScore() int {
	resolution := m.resolutionRate() * 100
	resolutionTime := math.Max(0, 100-m.avgResolutionDays*config.ResolutionTimePenaltyPerDay)
	volume := math.Max(0, 100-math.Min(float64(m.total*config.VolumePenaltyPerComplaint), 100))
	repeat := math.Max(0, 100-m.repeatComplaintRate()*100)
	response := m.responseRate() * 100

	score := resolution*config.WeightResolutionRate +
		resolutionTime*config.WeightResolutionTime +
		m.satisfaction()*config.WeightSatisfaction +
		volume*config.WeightVolume +
		repeat*config.WeightRepeat +
		response*config.WeightResponse

	return round(math.Min(100, math.Max(0, score)))
}

// badges derives the qualitative labels. Speed badges need at least one
// timed resolution, so companies without history get none.
func (m metrics) badges(overall int) []string {
	badges := []string{}

	switch {
	case overall >= config.ExcellentMinScore:
		badges = append(badges, config.BadgeExcellent)
	case overall >= config.GoodMinScore:
		badges = append(badges, config.BadgeGood)
	case overall >= config.RegularMinScore:
		badges = append(badges, config.BadgeRegular)
	}

	if m.resolutionRate() >= config.ResolutiveMinRate {
		badges = append(badges, config.BadgeResolutive)
	}

	if m.timed > 0 && m.avgResolutionDays <= config.FastMaxAvgDays {
		badges = append(badges, config.BadgeFast)
		if m.avgResolutionDays <= config.VeryFastMaxAvgDays {
			badges = append(badges, config.BadgeVeryFast)
		}
	}
	return badges
}

// trend compares the resolution rate of the last 30 days with the 30 days
// before. An empty window counts as a rate of 0.
func trend(complaints []models.Complaint, now time.Time) models.Trend {
	if len(complaints) < config.TrendMinComplaints {
		return models.TrendStable
	}

	recentStart := now.Add(-config.TrendRecentWindow)
	olderStart := now.Add(-config.TrendOlderWindow)

	var recent, recentResolved, older, olderResolved int
	for i := range complaints {
		cpl := &complaints[i]
		switch {
		case !cpl.CreatedAt.Before(recentStart):
			recent++
			if cpl.IsResolved() {
				recentResolved++
			}
		case !cpl.CreatedAt.Before(olderStart):
			older++
			if cpl.IsResolved() {
				olderResolved++
			}
		}
	}

	diff := ratio(recentResolved, recent) - ratio(olderResolved, older)
	switch {
	case diff > config.TrendThreshold:
		return models.TrendImproving
	case diff < -config.TrendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
