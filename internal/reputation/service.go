package reputation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"centraldoconsumidor/backend/internal/config"
	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/models"

	"golang.org/x/sync/errgroup"
)

// Repository is everything the reputation service needs from storage.
type Repository interface {
	Store
	ListCompanies(ctx context.Context, category models.Category) ([]models.Company, error)
	UpsertReputation(ctx context.Context, rep *models.CompanyReputation) error
	SaveReputationHistory(ctx context.Context, entry *models.ReputationHistory) error
	GetReputationHistory(ctx context.Context, companyID string, since time.Time) ([]models.ReputationHistory, error)
	CacheReputation(ctx context.Context, rep *models.CompanyReputation, ttl time.Duration) error
	CachedReputation(ctx context.Context, companyID string) (*models.CompanyReputation, error)
}

// maxConcurrentCalculations bounds the TopCompanies fan-out.
const maxConcurrentCalculations = 8

// Service wraps the Calculator with snapshot persistence and caching.
type Service struct {
	calc     *Calculator
	repo     Repository
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewService(calc *Calculator, repo Repository, cacheTTL time.Duration) *Service {
	return &Service{
		calc:     calc,
		repo:     repo,
		cacheTTL: cacheTTL,
		log:      logging.New("reputation"),
	}
}

// Get returns the cached snapshot when present, else a fresh calculation.
// Cache failures only cost a recalculation.
func (s *Service) Get(ctx context.Context, companyID string) (*models.CompanyReputation, error) {
	cached, err := s.repo.CachedReputation(ctx, companyID)
	if err != nil {
		s.log.Warn("reputation cache read failed", "company_id", companyID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	rep, err := s.calc.CalculateReputation(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, rep)
	return rep, nil
}

// Refresh recalculates the reputation, stores it as the last known snapshot
// and records a history sample.
func (s *Service) Refresh(ctx context.Context, companyID string) (*models.CompanyReputation, error) {
	rep, err := s.calc.CalculateReputation(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpsertReputation(ctx, rep); err != nil {
		return nil, fmt.Errorf("save reputation of %s: %w", companyID, err)
	}

	entry := &models.ReputationHistory{
		CompanyID:          rep.CompanyID,
		Date:               rep.LastUpdated,
		Score:              rep.OverallScore,
		TotalComplaints:    rep.TotalComplaints,
		ResolvedComplaints: rep.ResolvedComplaints,
	}
	if err := s.repo.SaveReputationHistory(ctx, entry); err != nil {
		return nil, fmt.Errorf("save reputation history of %s: %w", companyID, err)
	}

	s.cache(ctx, rep)
	s.log.Info("reputation refreshed", "company_id", companyID, "score", rep.OverallScore, "trend", rep.Trend)
	return rep, nil
}

func (s *Service) cache(ctx context.Context, rep *models.CompanyReputation) {
	if s.cacheTTL <= 0 {
		return
	}
	if err := s.repo.CacheReputation(ctx, rep, s.cacheTTL); err != nil {
		s.log.Warn("reputation cache write failed", "company_id", rep.CompanyID, "error", err)
	}
}

// History returns the score samples of the last days days, oldest first.
func (s *Service) History(ctx context.Context, companyID string, days int) ([]models.ReputationHistory, error) {
	if days <= 0 {
		days = 30
	}
	if _, err := s.repo.GetCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}
	since := s.calc.now().AddDate(0, 0, -days)
	return s.repo.GetReputationHistory(ctx, companyID, since)
}

// TopCompanies returns the best reputations, optionally within one category.
// Equal scores keep the company listing order.
func (s *Service) TopCompanies(ctx context.Context, limit int, category models.Category) ([]models.CompanyReputation, error) {
	switch {
	case limit <= 0:
		limit = config.DefaultTopCompaniesLimit
	case limit > config.MaxTopCompaniesLimit:
		limit = config.MaxTopCompaniesLimit
	}

	companies, err := s.repo.ListCompanies(ctx, category)
	if err != nil {
		return nil, err
	}

	now := s.calc.now()
	peers := s.peerRankings(ctx, companies, now)

	results := make([]*models.CompanyReputation, len(companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCalculations)
	for i := range companies {
		company := &companies[i]
		g.Go(func() error {
			rep, err := s.calc.snapshot(gctx, company, now)
			if err != nil {
				return err
			}
			rep.CategoryRanking = peers[company.Category].rankOf(company.ID)
			results[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("top companies: %w", err)
	}

	top := make([]models.CompanyReputation, 0, len(results))
	for _, rep := range results {
		top = append(top, *rep)
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].OverallScore > top[j].OverallScore
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

// peerRankings loads each category's peers once for the whole listing. A
// category whose peers cannot be loaded is left without ranking.
func (s *Service) peerRankings(ctx context.Context, companies []models.Company, now time.Time) map[models.Category]*categoryPeers {
	peers := make(map[models.Category]*categoryPeers)
	for i := range companies {
		category := companies[i].Category
		if _, seen := peers[category]; seen {
			continue
		}
		ranking, err := s.calc.peerRanking(ctx, category, now)
		if err != nil {
			s.log.Warn("category ranking unavailable", "category", category, "error", err)
		}
		peers[category] = ranking
	}
	return peers
}
