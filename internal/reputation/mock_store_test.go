package reputation_test

import (
	"context"
	"time"

	"centraldoconsumidor/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetCompanyByID(ctx context.Context, companyID string) (*models.Company, error) {
	args := m.Called(ctx, companyID)
	company, _ := args.Get(0).(*models.Company)
	return company, args.Error(1)
}

func (m *MockRepository) ListComplaintsByCompany(ctx context.Context, companyID string) ([]models.Complaint, error) {
	args := m.Called(ctx, companyID)
	complaints, _ := args.Get(0).([]models.Complaint)
	return complaints, args.Error(1)
}

func (m *MockRepository) ListCompaniesByCategorySince(ctx context.Context, category models.Category, since time.Time) ([]models.Company, error) {
	args := m.Called(ctx, category, since)
	companies, _ := args.Get(0).([]models.Company)
	return companies, args.Error(1)
}

func (m *MockRepository) ListCompanies(ctx context.Context, category models.Category) ([]models.Company, error) {
	args := m.Called(ctx, category)
	companies, _ := args.Get(0).([]models.Company)
	return companies, args.Error(1)
}

func (m *MockRepository) UpsertReputation(ctx context.Context, rep *models.CompanyReputation) error {
	args := m.Called(ctx, rep)
	return args.Error(0)
}

func (m *MockRepository) SaveReputationHistory(ctx context.Context, entry *models.ReputationHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) GetReputationHistory(ctx context.Context, companyID string, since time.Time) ([]models.ReputationHistory, error) {
	args := m.Called(ctx, companyID, since)
	history, _ := args.Get(0).([]models.ReputationHistory)
	return history, args.Error(1)
}

func (m *MockRepository) CacheReputation(ctx context.Context, rep *models.CompanyReputation, ttl time.Duration) error {
	args := m.Called(ctx, rep, ttl)
	return args.Error(0)
}

func (m *MockRepository) CachedReputation(ctx context.Context, companyID string) (*models.CompanyReputation, error) {
	args := m.Called(ctx, companyID)
	rep, _ := args.Get(0).(*models.CompanyReputation)
	return rep, args.Error(1)
}

// fixedNow is the clock used by every test in this package.
var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func daysAgo(d float64) time.Time {
	return fixedNow.Add(-time.Duration(d * float64(24*time.Hour)))
}

// complaint builds a complaint created createdDaysAgo days before fixedNow.
// resolvedAfter < 0 leaves it unresolved; responded adds a company reply.
func complaint(id string, createdDaysAgo, resolvedAfter float64, responded bool) models.Complaint {
	created := daysAgo(createdDaysAgo)
	c := models.Complaint{
		ID:        id,
		CompanyID: "acme",
		Status:    models.StatusWaiting,
		CreatedAt: created,
		Updates: []models.Update{
			{Message: "Reclamação registrada", Source: models.SourceSystem, Action: models.ActionCreated, CreatedAt: created},
		},
	}
	if resolvedAfter >= 0 {
		resolved := created.Add(time.Duration(resolvedAfter * float64(24*time.Hour)))
		c.Status = models.StatusResolved
		c.ResolvedAt = &resolved
	}
	if responded {
		c.Updates = append(c.Updates, models.Update{Message: "Estamos analisando", Source: models.SourceCompany, CreatedAt: created.Add(time.Hour)})
	}
	return c
}
