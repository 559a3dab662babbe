// Package complaint handles the complaint lifecycle: filing, status changes
// and the reputation refresh that follows them.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/models"
	"centraldoconsumidor/backend/internal/storage"
)

var (
	// ErrInvalidComplaint wraps every validation failure of a new complaint.
	ErrInvalidComplaint = errors.New("invalid complaint")
	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden is returned when a user acts on someone else's complaint.
	ErrForbidden = errors.New("complaint belongs to another user")
)

const (
	minTitleLength       = 5
	minDescriptionLength = 10
	estimatedResolution  = 30 * 24 * time.Hour
)

// Store is the subset of storage used by the complaint service.
type Store interface {
	GetCompanyByID(ctx context.Context, companyID string) (*models.Company, error)
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByID(ctx context.Context, complaintID string) (*models.Complaint, error)
	UpdateComplaint(ctx context.Context, complaint *models.Complaint) error
	ListComplaintsByUser(ctx context.Context, userID string, filter storage.ComplaintFilter) ([]models.Complaint, error)
	AppendUpdate(ctx context.Context, update *models.Update) error
	PublishNotification(ctx context.Context, n models.Notification) error
}

// ChannelRecommender proposes candidate channels for a new complaint.
type ChannelRecommender interface {
	RecommendChannels(category models.Category, priority models.Priority) []string
}

// ReputationRefresher recomputes and stores a company's reputation.
type ReputationRefresher interface {
	Refresh(ctx context.Context, companyID string) (*models.CompanyReputation, error)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage    Store
	Channels   ChannelRecommender
	Reputation ReputationRefresher
	Now        func() time.Time
	log        *slog.Logger
}

// NewService creates a new complaint service. reputation may be nil.
func NewService(s Store, channels ChannelRecommender, reputation ReputationRefresher) *Service {
	return &Service{
		Storage:    s,
		Channels:   channels,
		Reputation: reputation,
		Now:        time.Now,
		log:        logging.New("complaint"),
	}
}

// FileRequest is a consumer's new complaint.
type FileRequest struct {
	UserID      string
	CompanyID   string
	Title       string
	Description string
	// Category defaults to the company's category when empty.
	Category  models.Category
	Priority  models.Priority
	Documents []string
}

func (r FileRequest) validate() error {
	switch {
	case r.UserID == "":
		return fmt.Errorf("%w: user is required", ErrInvalidComplaint)
	case r.CompanyID == "":
		return fmt.Errorf("%w: company is required", ErrInvalidComplaint)
	case utf8.RuneCountInString(strings.TrimSpace(r.Title)) < minTitleLength:
		return fmt.Errorf("%w: title must have at least %d characters", ErrInvalidComplaint, minTitleLength)
	case utf8.RuneCountInString(strings.TrimSpace(r.Description)) < minDescriptionLength:
		return fmt.Errorf("%w: description must have at least %d characters", ErrInvalidComplaint, minDescriptionLength)
	}
	return nil
}

// File registers a new complaint in ANALYSIS with the recommended channels
// and a creation update.
func (s *Service) File(ctx context.Context, req FileRequest) (*models.Complaint, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	company, err := s.Storage.GetCompanyByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = company.Category
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := s.Now()
	estimated := now.Add(estimatedResolution)
	channels := s.Channels.RecommendChannels(category, priority)

	complaint := &models.Complaint{
		UserID:        req.UserID,
		CompanyID:     company.ID,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Category:      category,
		Priority:      priority,
		Status:        models.StatusAnalysis,
		Protocol:      NewProtocol(now),
		Channels:      channels,
		Documents:     req.Documents,
		CreatedAt:     now,
		EstimatedDate: &estimated,
		Updates: []models.Update{{
			Message: "Reclamação registrada com sucesso. Aguardando análise inicial.",
			Source:  models.SourceSystem,
			Action:  models.ActionCreated,
			Metadata: map[string]any{
				"channels": channels,
				"priority": string(priority),
			},
			CreatedAt: now,
		}},
	}

	if err := s.Storage.CreateComplaint(ctx, complaint); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	s.log.Info("complaint filed", "complaint_id", complaint.ID, "protocol", complaint.Protocol, "company_id", company.ID)

	s.notify(ctx, models.Notification{
		Type:        models.NotificationComplaintCreated,
		UserID:      complaint.UserID,
		ComplaintID: complaint.ID,
		Title:       "Nova reclamação registrada",
		Message:     fmt.Sprintf("Sua reclamação \"%s\" foi registrada com protocolo %s", complaint.Title, complaint.Protocol),
		Metadata:    map[string]any{"protocol": complaint.Protocol, "priority": string(priority)},
	})
	s.refreshReputation(ctx, company.ID)

	return complaint, nil
}

// NewProtocol builds a consumer-facing protocol number:
// "CC", the year, six digits of the millisecond clock and four random digits.
func NewProtocol(now time.Time) string {
	return fmt.Sprintf("CC%d%06d%04d", now.Year(), now.UnixMilli()%1_000_000, rand.IntN(10_000))
}

// StatusChange moves a complaint to a new status.
type StatusChange struct {
	ComplaintID string
	// ActorID is the authenticated user making the change.
	ActorID string
	Status  models.Status
	Source  models.UpdateSource
	Message string
}

// UpdateStatus applies a status change and appends an update describing it.
// Terminal complaints cannot change. Users may only change their own
// complaints.
func (s *Service) UpdateStatus(ctx context.Context, change StatusChange) (*models.Complaint, error) {
	if _, ok := models.ParseStatus(string(change.Status)); !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, change.Status)
	}
	if change.Source == "" {
		change.Source = models.SourceUser
	}

	complaint, err := s.Storage.GetComplaintByID(ctx, change.ComplaintID)
	if err != nil {
		return nil, err
	}
	if change.Source == models.SourceUser && complaint.UserID != change.ActorID {
		return nil, ErrForbidden
	}
	if complaint.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: complaint is already %s", ErrInvalidTransition, complaint.Status)
	}

	now := s.Now()
	previous := complaint.Status
	complaint.Status = change.Status
	if change.Status == models.StatusResolved {
		resolvedAt := now
		if resolvedAt.Before(complaint.CreatedAt) {
			resolvedAt = complaint.CreatedAt
		}
		complaint.ResolvedAt = &resolvedAt
	}

	if err := s.Storage.UpdateComplaint(ctx, complaint); err != nil {
		return nil, fmt.Errorf("update complaint %s: %w", complaint.ID, err)
	}

	message := strings.TrimSpace(change.Message)
	if message == "" {
		message = fmt.Sprintf("Status atualizado para %s", change.Status)
	}
	update := &models.Update{
		ComplaintID: complaint.ID,
		Message:     message,
		Source:      change.Source,
		Action:      "status_changed",
		Metadata:    map[string]any{"from": string(previous), "to": string(change.Status)},
		CreatedAt:   now,
	}
	if err := s.Storage.AppendUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("append update to %s: %w", complaint.ID, err)
	}
	complaint.Updates = append(complaint.Updates, *update)

	s.notify(ctx, models.Notification{
		Type:        models.NotificationComplaintUpdated,
		UserID:      complaint.UserID,
		ComplaintID: complaint.ID,
		Title:       "Reclamação atualizada",
		Message:     message,
		Metadata:    map[string]any{"status": string(change.Status)},
	})
	s.refreshReputation(ctx, complaint.CompanyID)

	return complaint, nil
}

// ListForUser returns the complaints of a user, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string, filter storage.ComplaintFilter) ([]models.Complaint, error) {
	return s.Storage.ListComplaintsByUser(ctx, userID, filter)
}

func (s *Service) notify(ctx context.Context, n models.Notification) {
	if err := s.Storage.PublishNotification(ctx, n); err != nil {
		s.log.Warn("notification not published", "type", n.Type, "complaint_id", n.ComplaintID, "error", err)
	}
}

// refreshReputation is best effort; the complaint change already happened.
func (s *Service) refreshReputation(ctx context.Context, companyID string) {
	if s.Reputation == nil {
		return
	}
	if _, err := s.Reputation.Refresh(ctx, companyID); err != nil {
		s.log.Error("reputation refresh failed", "company_id", companyID, "error", err)
	}
}
