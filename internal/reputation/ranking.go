package reputation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"centraldoconsumidor/backend/internal/config"
	"centraldoconsumidor/backend/internal/models"
)

// RankInCategory ranks a company among the companies of category by their
// resolution rate over the last 90 days. It returns nil when the category
// has at most one company or the company is not part of it.
func (c *Calculator) RankInCategory(ctx context.Context, companyID string, category models.Category) (*models.CategoryRanking, error) {
	return c.rankInCategory(ctx, companyID, category, c.now())
}

// Ranking ranks a company within its own category.
func (s *Service) Ranking(ctx context.Context, companyID string) (*models.CategoryRanking, error) {
	company, err := s.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return s.calc.RankInCategory(ctx, company.ID, company.Category)
}

type peerScore struct {
	companyID string
	score     float64
}

func (c *Calculator) rankInCategory(ctx context.Context, companyID string, category models.Category, now time.Time) (*models.CategoryRanking, error) {
	peers, err := c.peerRanking(ctx, category, now)
	if err != nil {
		return nil, err
	}
	return peers.rankOf(companyID), nil
}

// categoryPeers is the ordered peer list of one category, best first.
type categoryPeers struct {
	category models.Category
	scores   []peerScore
}

// peerRanking loads the peers of category once so every member can be
// ranked without reloading their complaints.
func (c *Calculator) peerRanking(ctx context.Context, category models.Category, now time.Time) (*categoryPeers, error) {
	peers, err := c.store.ListCompaniesByCategorySince(ctx, category, now.Add(-config.RankingWindow))
	if err != nil {
		return nil, fmt.Errorf("list %s peers: %w", category, err)
	}

	scores := make([]peerScore, 0, len(peers))
	for i := range peers {
		scores = append(scores, peerScore{
			companyID: peers[i].ID,
			score:     peerResolutionScore(peers[i].Complaints),
		})
	}

	// Equal scores keep the fetch order.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	return &categoryPeers{category: category, scores: scores}, nil
}

func (p *categoryPeers) rankOf(companyID string) *models.CategoryRanking {
	if p == nil || len(p.scores) <= 1 {
		return nil
	}
	for i, ps := range p.scores {
		if ps.companyID == companyID {
			return &models.CategoryRanking{
				Category:       p.category,
				Rank:           i + 1,
				TotalCompanies: len(p.scores),
			}
		}
	}
	return nil
}

func peerResolutionScore(complaints []models.Complaint) float64 {
	resolved := 0
	for i := range complaints {
		if complaints[i].IsResolved() {
			resolved++
		}
	}
	return ratio(resolved, len(complaints)) * 100
}
