package complaint_test

import (
	"context"

	"centraldoconsumidor/backend/internal/models"
	"centraldoconsumidor/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetCompanyByID(ctx context.Context, companyID string) (*models.Company, error) {
	args := m.Called(ctx, companyID)
	company, _ := args.Get(0).(*models.Company)
	return company, args.Error(1)
}

func (m *MockStorage) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(ctx context.Context, complaintID string) (*models.Complaint, error) {
	args := m.Called(ctx, complaintID)
	complaint, _ := args.Get(0).(*models.Complaint)
	return complaint, args.Error(1)
}

func (m *MockStorage) UpdateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) ListComplaintsByUser(ctx context.Context, userID string, filter storage.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(ctx, userID, filter)
	complaints, _ := args.Get(0).([]models.Complaint)
	return complaints, args.Error(1)
}

func (m *MockStorage) AppendUpdate(ctx context.Context, update *models.Update) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockStorage) PublishNotification(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockReputation struct {
	mock.Mock
}

func (m *MockReputation) Refresh(ctx context.Context, companyID string) (*models.CompanyReputation, error) {
	args := m.Called(ctx, companyID)
	rep, _ := args.Get(0).(*models.CompanyReputation)
	return rep, args.Error(1)
}
