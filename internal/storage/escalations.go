package storage

import (
	"context"
	"fmt"

	"centraldoconsumidor/backend/internal/models"
)

func (s *Service) CreateEscalation(ctx context.Context, e *models.Escalation) error {
	return s.DB.WithContext(ctx).Create(e).Error
}

func (s *Service) GetEscalation(ctx context.Context, id string) (*models.Escalation, error) {
	var e models.Escalation
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// UpdateEscalation persists the status fields of an escalation.
func (s *Service) UpdateEscalation(ctx context.Context, e *models.Escalation) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Escalation{ID: e.ID}).
		Select("status", "completed_at", "updated_at").
		Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEscalationsByUser returns a user's escalations, newest first.
func (s *Service) ListEscalationsByUser(ctx context.Context, userID string) ([]models.Escalation, error) {
	var list []models.Escalation
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id asc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list escalations of user %s: %w", userID, err)
	}
	return list, nil
}

// ListOpenEscalations returns the PENDING and IN_PROGRESS escalations of a
// complaint.
func (s *Service) ListOpenEscalations(ctx context.Context, complaintID string) ([]models.Escalation, error) {
	var list []models.Escalation
	err := s.DB.WithContext(ctx).
		Where("complaint_id = ? AND status IN ?", complaintID,
			[]models.EscalationStatus{models.EscalationPending, models.EscalationInProgress}).
		Order("created_at asc, id asc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list open escalations of %s: %w", complaintID, err)
	}
	return list, nil
}
