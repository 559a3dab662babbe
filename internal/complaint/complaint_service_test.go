package complaint_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"centraldoconsumidor/backend/internal/analysis"
	"centraldoconsumidor/backend/internal/complaint"
	"centraldoconsumidor/backend/internal/models"
	"centraldoconsumidor/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

func newService() (*complaint.Service, *MockStorage, *MockReputation) {
	store := new(MockStorage)
	rep := new(MockReputation)
	svc := complaint.NewService(store, analysis.NewScorer(nil), rep)
	svc.Now = func() time.Time { return now }
	return svc, store, rep
}

func validRequest() complaint.FileRequest {
	return complaint.FileRequest{
		UserID:      "user-1",
		CompanyID:   "tel-1",
		Title:       "Cobrança indevida",
		Description: "Fui cobrado por um serviço que nunca contratei.",
		Priority:    models.PriorityUrgent,
	}
}

func TestFile_CreatesComplaintInAnalysis(t *testing.T) {
	svc, store, rep := newService()
	store.On("GetCompanyByID", mock.Anything, "tel-1").Return(&models.Company{ID: "tel-1", Category: models.CategoryTelecom}, nil)
	store.On("CreateComplaint", mock.Anything, mock.AnythingOfType("*models.Complaint")).Return(nil)
	store.On("PublishNotification", mock.Anything, mock.Anything).Return(nil)
	rep.On("Refresh", mock.Anything, "tel-1").Return(&models.CompanyReputation{}, nil)

	c, err := svc.File(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, models.StatusAnalysis, c.Status)
	assert.Equal(t, models.CategoryTelecom, c.Category, "category defaults to the company's")
	assert.Equal(t, []string{"Procon", "Anatel", "Reclame Aqui", "Ouvidoria da Empresa", "Ministério Público", "Defensoria Pública"}, []string(c.Channels))
	assert.Regexp(t, regexp.MustCompile(`^CC2026\d{10}$`), c.Protocol)
	require.NotNil(t, c.EstimatedDate)
	assert.Equal(t, now.Add(30*24*time.Hour), *c.EstimatedDate)

	require.Len(t, c.Updates, 1)
	assert.Equal(t, models.ActionCreated, c.Updates[0].Action)
	assert.Equal(t, models.SourceSystem, c.Updates[0].Source)
	assert.False(t, c.HasResponse())

	store.AssertCalled(t, "PublishNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotificationComplaintCreated && n.UserID == "user-1"
	}))
	rep.AssertExpectations(t)
}

func TestFile_Validation(t *testing.T) {
	svc, store, _ := newService()

	short := validRequest()
	short.Title = "Oi"
	_, err := svc.File(context.Background(), short)
	assert.ErrorIs(t, err, complaint.ErrInvalidComplaint)

	noDescription := validRequest()
	noDescription.Description = "curta"
	_, err = svc.File(context.Background(), noDescription)
	assert.ErrorIs(t, err, complaint.ErrInvalidComplaint)

	store.AssertNotCalled(t, "GetCompanyByID", mock.Anything, mock.Anything)
}

func TestFile_UnknownCompany(t *testing.T) {
	svc, store, _ := newService()
	store.On("GetCompanyByID", mock.Anything, "tel-1").Return(nil, storage.ErrNotFound)

	_, err := svc.File(context.Background(), validRequest())

	assert.ErrorIs(t, err, storage.ErrNotFound)
	store.AssertNotCalled(t, "CreateComplaint", mock.Anything, mock.Anything)
}

func TestFile_ReputationFailureDoesNotFail(t *testing.T) {
	svc, store, rep := newService()
	store.On("GetCompanyByID", mock.Anything, "tel-1").Return(&models.Company{ID: "tel-1", Category: models.CategoryTelecom}, nil)
	store.On("CreateComplaint", mock.Anything, mock.Anything).Return(nil)
	store.On("PublishNotification", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	rep.On("Refresh", mock.Anything, "tel-1").Return(nil, errors.New("db timeout"))

	c, err := svc.File(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotNil(t, c)
}

func openComplaint() *models.Complaint {
	return &models.Complaint{
		ID:        "cmp-1",
		UserID:    "user-1",
		CompanyID: "tel-1",
		Status:    models.StatusWaiting,
		CreatedAt: now.Add(-72 * time.Hour),
	}
}

func TestUpdateStatus_Resolved(t *testing.T) {
	svc, store, rep := newService()
	store.On("GetComplaintByID", mock.Anything, "cmp-1").Return(openComplaint(), nil)
	store.On("UpdateComplaint", mock.Anything, mock.Anything).Return(nil)
	store.On("AppendUpdate", mock.Anything, mock.AnythingOfType("*models.Update")).Return(nil)
	store.On("PublishNotification", mock.Anything, mock.Anything).Return(nil)
	rep.On("Refresh", mock.Anything, "tel-1").Return(&models.CompanyReputation{}, nil)

	c, err := svc.UpdateStatus(context.Background(), complaint.StatusChange{
		ComplaintID: "cmp-1",
		ActorID:     "user-1",
		Status:      models.StatusResolved,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, c.Status)
	require.NotNil(t, c.ResolvedAt)
	assert.Equal(t, now, *c.ResolvedAt)
	days, ok := c.ResolutionDays()
	assert.True(t, ok)
	assert.InDelta(t, 3.0, days, 1e-9)

	require.Len(t, c.Updates, 1)
	assert.Equal(t, "Status atualizado para RESOLVED", c.Updates[0].Message)
	assert.True(t, c.HasResponse())
	rep.AssertCalled(t, "Refresh", mock.Anything, "tel-1")
}

func TestUpdateStatus_ResolvedNeverBeforeCreation(t *testing.T) {
	svc, store, _ := newService()
	future := openComplaint()
	future.CreatedAt = now.Add(time.Hour)
	store.On("GetComplaintByID", mock.Anything, "cmp-1").Return(future, nil)
	store.On("UpdateComplaint", mock.Anything, mock.Anything).Return(nil)
	store.On("AppendUpdate", mock.Anything, mock.Anything).Return(nil)
	store.On("PublishNotification", mock.Anything, mock.Anything).Return(nil)
	svc.Reputation = nil

	c, err := svc.UpdateStatus(context.Background(), complaint.StatusChange{
		ComplaintID: "cmp-1",
		Status:      models.StatusResolved,
		Source:      models.SourceCompany,
	})

	require.NoError(t, err)
	assert.False(t, c.ResolvedAt.Before(c.CreatedAt))
}

func TestUpdateStatus_TerminalIsFinal(t *testing.T) {
	for _, status := range []models.Status{models.StatusResolved, models.StatusCancelled, models.StatusNotResolved} {
		t.Run(string(status), func(t *testing.T) {
			svc, store, _ := newService()
			closed := openComplaint()
			closed.Status = status
			store.On("GetComplaintByID", mock.Anything, "cmp-1").Return(closed, nil)

			_, err := svc.UpdateStatus(context.Background(), complaint.StatusChange{
				ComplaintID: "cmp-1",
				ActorID:     "user-1",
				Status:      models.StatusWaiting,
			})

			assert.ErrorIs(t, err, complaint.ErrInvalidTransition)
			store.AssertNotCalled(t, "UpdateComplaint", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateStatus_OtherUsersComplaint(t *testing.T) {
	svc, store, _ := newService()
	store.On("GetComplaintByID", mock.Anything, "cmp-1").Return(openComplaint(), nil)

	_, err := svc.UpdateStatus(context.Background(), complaint.StatusChange{
		ComplaintID: "cmp-1",
		ActorID:     "intruder",
		Status:      models.StatusCancelled,
		Source:      models.SourceUser,
	})

	assert.ErrorIs(t, err, complaint.ErrForbidden)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, store, _ := newService()

	_, err := svc.UpdateStatus(context.Background(), complaint.StatusChange{ComplaintID: "cmp-1", Status: "ARCHIVED"})

	assert.ErrorIs(t, err, complaint.ErrInvalidTransition)
	store.AssertNotCalled(t, "GetComplaintByID", mock.Anything, mock.Anything)
}

func TestNewProtocol(t *testing.T) {
	p := complaint.NewProtocol(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Len(t, p, 16)
	assert.Regexp(t, `^CC2025\d{10}$`, p)
}

func TestUpdateStatus_CompanySourceSkipsOwnership(t *testing.T) {
	svc, store, rep := newService()
	store.On("GetComplaintByID", mock.Anything, "cmp-1").Return(openComplaint(), nil)
	store.On("UpdateComplaint", mock.Anything, mock.Anything).Return(nil)
	store.On("AppendUpdate", mock.Anything, mock.MatchedBy(func(u *models.Update) bool {
		return u.Source == models.SourceCompany && u.Message == "Estorno realizado"
	})).Return(nil)
	store.On("PublishNotification", mock.Anything, mock.Anything).Return(nil)
	rep.On("Refresh", mock.Anything, mock.Anything).Return(nil, nil)

	updated, err := svc.UpdateStatus(context.Background(), complaint.StatusChange{
		ComplaintID: "cmp-1",
		Status:      models.StatusResponded,
		Source:      models.SourceCompany,
		Message:     "Estorno realizado",
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusResponded, updated.Status)
	assert.True(t, updated.HasResponse())
}

func TestListForUser(t *testing.T) {
	svc, store, _ := newService()
	filter := storage.ComplaintFilter{Status: models.StatusWaiting}
	store.On("ListComplaintsByUser", mock.Anything, "user-1", filter).Return([]models.Complaint{{ID: "a"}, {ID: "b"}}, nil)

	list, err := svc.ListForUser(context.Background(), "user-1", filter)

	require.NoError(t, err)
	assert.Len(t, list, 2)
}
