package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"centraldoconsumidor/backend/internal/complaint"
	"centraldoconsumidor/backend/internal/distribution"
	"centraldoconsumidor/backend/internal/escalation"
	"centraldoconsumidor/backend/internal/models"
	"centraldoconsumidor/backend/internal/storage"
)

type MockReputation struct {
	mock.Mock
}

func (m *MockReputation) Get(ctx context.Context, companyID string) (*models.CompanyReputation, error) {
	args := m.Called(ctx, companyID)
	rep, _ := args.Get(0).(*models.CompanyReputation)
	return rep, args.Error(1)
}

func (m *MockReputation) Refresh(ctx context.Context, companyID string) (*models.CompanyReputation, error) {
	args := m.Called(ctx, companyID)
	rep, _ := args.Get(0).(*models.CompanyReputation)
	return rep, args.Error(1)
}

func (m *MockReputation) History(ctx context.Context, companyID string, days int) ([]models.ReputationHistory, error) {
	args := m.Called(ctx, companyID, days)
	history, _ := args.Get(0).([]models.ReputationHistory)
	return history, args.Error(1)
}

func (m *MockReputation) TopCompanies(ctx context.Context, limit int, category models.Category) ([]models.CompanyReputation, error) {
	args := m.Called(ctx, limit, category)
	reps, _ := args.Get(0).([]models.CompanyReputation)
	return reps, args.Error(1)
}

func (m *MockReputation) Ranking(ctx context.Context, companyID string) (*models.CategoryRanking, error) {
	args := m.Called(ctx, companyID)
	ranking, _ := args.Get(0).(*models.CategoryRanking)
	return ranking, args.Error(1)
}

type MockComplaints struct {
	mock.Mock
}

func (m *MockComplaints) File(ctx context.Context, req complaint.FileRequest) (*models.Complaint, error) {
	args := m.Called(ctx, req)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

func (m *MockComplaints) UpdateStatus(ctx context.Context, change complaint.StatusChange) (*models.Complaint, error) {
	args := m.Called(ctx, change)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

func (m *MockComplaints) ListForUser(ctx context.Context, userID string, filter storage.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(ctx, userID, filter)
	list, _ := args.Get(0).([]models.Complaint)
	return list, args.Error(1)
}

type MockDistributor struct {
	mock.Mock
}

func (m *MockDistributor) Recommend(ctx context.Context, complaintID, userID string) (*distribution.Recommendation, error) {
	args := m.Called(ctx, complaintID, userID)
	rec, _ := args.Get(0).(*distribution.Recommendation)
	return rec, args.Error(1)
}

func (m *MockDistributor) Distribute(ctx context.Context, req distribution.DistributeRequest) (*distribution.Result, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*distribution.Result)
	return res, args.Error(1)
}

type MockEscalations struct {
	mock.Mock
}

func (m *MockEscalations) Estimate(ctx context.Context, complaintID, userID string, complexity escalation.Complexity) (*escalation.Estimate, error) {
	args := m.Called(ctx, complaintID, userID, complexity)
	est, _ := args.Get(0).(*escalation.Estimate)
	return est, args.Error(1)
}

func (m *MockEscalations) Create(ctx context.Context, req escalation.Request) (*models.Escalation, error) {
	args := m.Called(ctx, req)
	e, _ := args.Get(0).(*models.Escalation)
	return e, args.Error(1)
}

func (m *MockEscalations) ListForUser(ctx context.Context, userID string) ([]models.Escalation, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.Escalation)
	return list, args.Error(1)
}

func (m *MockEscalations) Cancel(ctx context.Context, id, userID string) (*models.Escalation, error) {
	args := m.Called(ctx, id, userID)
	e, _ := args.Get(0).(*models.Escalation)
	return e, args.Error(1)
}

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) ListUserNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.UserNotification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	list, _ := args.Get(0).([]models.UserNotification)
	return list, args.Error(1)
}

func (m *MockInbox) MarkNotificationRead(ctx context.Context, userID string, id uint) error {
	return m.Called(ctx, userID, id).Error(0)
}
