// Package escalation handles requests to take an unresolved complaint to
// court through the portal's legal assistance: quotes, creation, operator
// status changes and cancellation.
package escalation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/models"
)

var (
	// ErrInvalidEscalation wraps every validation failure of a new request.
	ErrInvalidEscalation = errors.New("invalid escalation")
	// ErrForbidden is returned when a user acts on someone else's complaint
	// or escalation.
	ErrForbidden = errors.New("escalation belongs to another user")
	// ErrAlreadyOpen is returned when the complaint has a PENDING or
	// IN_PROGRESS escalation.
	ErrAlreadyOpen = errors.New("complaint already has an open escalation")
	// ErrComplaintClosed is returned for RESOLVED and CANCELLED complaints.
	ErrComplaintClosed = errors.New("complaint is closed")
	// ErrNotCancellable is returned when cancelling a COMPLETED escalation.
	ErrNotCancellable = errors.New("escalation is already completed")
	// ErrInvalidTransition is returned for operator status changes that are
	// not allowed.
	ErrInvalidTransition = errors.New("invalid escalation transition")
)

// Store is the subset of storage used by the escalation service.
type Store interface {
	GetComplaintByID(ctx context.Context, complaintID string) (*models.Complaint, error)
	CreateEscalation(ctx context.Context, e *models.Escalation) error
	GetEscalation(ctx context.Context, id string) (*models.Escalation, error)
	UpdateEscalation(ctx context.Context, e *models.Escalation) error
	ListEscalationsByUser(ctx context.Context, userID string) ([]models.Escalation, error)
	ListOpenEscalations(ctx context.Context, complaintID string) ([]models.Escalation, error)
	PublishNotification(ctx context.Context, n models.Notification) error
}

type Service struct {
	store Store
	now   func() time.Time
	log   *slog.Logger
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		log:   logging.New("escalation"),
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Request asks to escalate a complaint.
type Request struct {
	ComplaintID    string
	UserID         string
	Reason         string
	AdditionalInfo string
	Complexity     Complexity
}

// Estimate quotes the escalation of one of the user's complaints.
func (s *Service) Estimate(ctx context.Context, complaintID, userID string, complexity Complexity) (*Estimate, error) {
	complaint, err := s.ownedComplaint(ctx, complaintID, userID)
	if err != nil {
		return nil, err
	}
	est := Quote(complaint.Category, complexity)
	return &est, nil
}

// Create opens a PENDING escalation priced by the complaint's category
// template. A complaint has at most one open escalation.
func (s *Service) Create(ctx context.Context, req Request) (*models.Escalation, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidEscalation)
	}
	complexity := req.Complexity
	if complexity == "" {
		complexity = ComplexityMedium
	}
	if _, ok := complexityMultiplier[complexity]; !ok {
		return nil, fmt.Errorf("%w: unknown complexity %q", ErrInvalidEscalation, complexity)
	}

	complaint, err := s.ownedComplaint(ctx, req.ComplaintID, req.UserID)
	if err != nil {
		return nil, err
	}
	if complaint.Status == models.StatusResolved || complaint.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: status %s", ErrComplaintClosed, complaint.Status)
	}

	open, err := s.store.ListOpenEscalations(ctx, complaint.ID)
	if err != nil {
		return nil, fmt.Errorf("list escalations of %s: %w", complaint.ID, err)
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyOpen, open[0].ID)
	}

	tmpl := TemplateFor(complaint.Category)
	now := s.now()
	e := &models.Escalation{
		ComplaintID:    complaint.ID,
		UserID:         req.UserID,
		Status:         models.EscalationPending,
		Reason:         reason,
		AdditionalInfo: strings.TrimSpace(req.AdditionalInfo),
		Template:       tmpl.ID,
		Complexity:     string(complexity),
		EstimatedCost:  tmpl.Cost(complexity),
		EstimatedTime:  tmpl.EstimatedTime,
		NextSteps:      append([]string(nil), nextSteps...),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateEscalation(ctx, e); err != nil {
		return nil, fmt.Errorf("create escalation for %s: %w", complaint.ID, err)
	}

	s.notify(ctx, e, models.NotificationEscalationCreated, "Escalonamento solicitado",
		fmt.Sprintf("Seu pedido de escalonamento foi registrado. Custo estimado: R$ %.2f", e.EstimatedCost))
	s.log.Info("escalation created", "escalation_id", e.ID, "complaint_id", complaint.ID, "template", tmpl.ID)
	return e, nil
}

// ListForUser returns the user's escalations, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Escalation, error) {
	return s.store.ListEscalationsByUser(ctx, userID)
}

// Cancel cancels one of the user's escalations. Cancelling a cancelled
// escalation changes nothing.
func (s *Service) Cancel(ctx context.Context, id, userID string) (*models.Escalation, error) {
	e, err := s.store.GetEscalation(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, ErrForbidden
	}
	switch e.Status {
	case models.EscalationCompleted:
		return nil, ErrNotCancellable
	case models.EscalationCancelled:
		return e, nil
	}

	if err := s.setStatus(ctx, e, models.EscalationCancelled); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateStatus moves an open escalation forward on behalf of the legal
// team. Closed escalations never change and nothing goes back to PENDING.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.EscalationStatus) (*models.Escalation, error) {
	e, err := s.store.GetEscalation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.Status.IsOpen() || status == models.EscalationPending || status == e.Status {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, e.Status, status)
	}

	if err := s.setStatus(ctx, e, status); err != nil {
		return nil, err
	}
	s.notify(ctx, e, models.NotificationEscalationUpdated, "Escalonamento atualizado",
		fmt.Sprintf("Seu escalonamento agora está %s", e.Status))
	return e, nil
}

// CancelOpen cancels every open escalation of a complaint and returns how
// many were cancelled.
func (s *Service) CancelOpen(ctx context.Context, complaintID string) (int, error) {
	open, err := s.store.ListOpenEscalations(ctx, complaintID)
	if err != nil {
		return 0, fmt.Errorf("list escalations of %s: %w", complaintID, err)
	}
	for i := range open {
		if err := s.setStatus(ctx, &open[i], models.EscalationCancelled); err != nil {
			return i, err
		}
	}
	return len(open), nil
}

// OnComplaintUpdated cancels the open escalations of a complaint that was
// resolved or cancelled. It is a hook for complaint.updated events.
func (s *Service) OnComplaintUpdated(ctx context.Context, n models.Notification) {
	status, _ := n.Metadata["status"].(string)
	switch models.Status(status) {
	case models.StatusResolved, models.StatusCancelled:
	default:
		return
	}

	cancelled, err := s.CancelOpen(ctx, n.ComplaintID)
	if err != nil {
		s.log.Error("open escalations not cancelled", "complaint_id", n.ComplaintID, "error", err)
		return
	}
	if cancelled > 0 {
		s.log.Info("escalations cancelled with their complaint", "complaint_id", n.ComplaintID, "status", status, "count", cancelled)
	}
}

func (s *Service) setStatus(ctx context.Context, e *models.Escalation, status models.EscalationStatus) error {
	now := s.now()
	e.Status = status
	e.UpdatedAt = now
	if status == models.EscalationCompleted {
		e.CompletedAt = &now
	}
	if err := s.store.UpdateEscalation(ctx, e); err != nil {
		return fmt.Errorf("update escalation %s: %w", e.ID, err)
	}
	return nil
}

func (s *Service) ownedComplaint(ctx context.Context, complaintID, userID string) (*models.Complaint, error) {
	complaint, err := s.store.GetComplaintByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.UserID != userID {
		return nil, ErrForbidden
	}
	return complaint, nil
}

func (s *Service) notify(ctx context.Context, e *models.Escalation, kind, title, message string) {
	err := s.store.PublishNotification(ctx, models.Notification{
		Type:        kind,
		UserID:      e.UserID,
		ComplaintID: e.ComplaintID,
		Title:       title,
		Message:     message,
		Metadata:    map[string]any{"escalation_id": e.ID, "status": string(e.Status)},
	})
	if err != nil {
		s.log.Warn("notification not published", "escalation_id", e.ID, "error", err)
	}
}
