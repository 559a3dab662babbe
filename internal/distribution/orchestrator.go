// Package distribution recommends external channels for a filed complaint
// and submits it to the channels the consumer picks.
package distribution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"centraldoconsumidor/backend/internal/advisor"
	"centraldoconsumidor/backend/internal/config"
	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/models"
)

var (
	// ErrNotAuthorized is returned when the consumer did not explicitly
	// authorize the distribution.
	ErrNotAuthorized = errors.New("distribution not authorized by the consumer")
	// ErrNoChannels is returned when no channel was selected.
	ErrNoChannels = errors.New("at least one channel must be selected")
	// ErrForbidden is returned when a user acts on someone else's complaint.
	ErrForbidden = errors.New("complaint belongs to another user")
	// ErrComplaintClosed is returned when distributing a terminal complaint.
	ErrComplaintClosed = errors.New("complaint is closed")
)

// Store is the subset of storage used by the orchestrator.
type Store interface {
	GetComplaintByID(ctx context.Context, complaintID string) (*models.Complaint, error)
	GetCompanyByID(ctx context.Context, companyID string) (*models.Company, error)
	UpdateComplaint(ctx context.Context, complaint *models.Complaint) error
	AppendUpdate(ctx context.Context, update *models.Update) error
	PublishNotification(ctx context.Context, n models.Notification) error
}

// Ranker is the channel scorer.
type Ranker interface {
	RecommendChannels(category models.Category, priority models.Priority) []string
	RankAndExplain(channels []string, category models.Category, priority models.Priority) []models.ChannelRecommendation
	Effectiveness(channel string) (models.ChannelEffectiveness, bool)
}

// Advisor supplies optional advisory output.
type Advisor interface {
	Advise(ctx context.Context, req advisor.Request) *advisor.Advice
}

type Orchestrator struct {
	store     Store
	ranker    Ranker
	advisor   Advisor
	submitter Submitter
	now       func() time.Time
	log       *slog.Logger
}

// NewOrchestrator wires the orchestrator. advisor may be nil; submitter
// defaults to the simulator.
func NewOrchestrator(store Store, ranker Ranker, adv Advisor, submitter Submitter) *Orchestrator {
	o := &Orchestrator{
		store:     store,
		ranker:    ranker,
		advisor:   adv,
		submitter: submitter,
		now:       time.Now,
		log:       logging.New("distribution"),
	}
	if o.submitter == nil {
		o.submitter = NewSimulatedSubmitter(o.clock)
	}
	return o
}

// WithClock replaces the time source.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

func (o *Orchestrator) clock() time.Time { return o.now() }

// Recommendation is the channel advice for one complaint.
type Recommendation struct {
	ComplaintID             string                         `json:"complaint_id"`
	Primary                 []models.ChannelRecommendation `json:"primary"`
	Secondary               []models.ChannelRecommendation `json:"secondary"`
	Reasoning               string                         `json:"reasoning"`
	EstimatedSuccess        int                            `json:"estimated_success"`
	EstimatedResolutionTime string                         `json:"estimated_resolution_time"`
	AIEnhanced              bool                           `json:"ai_enhanced"`
	Advice                  *advisor.Advice                `json:"advice,omitempty"`
}

// Recommend ranks the candidate channels of a complaint owned by userID.
// Ranking is deterministic; advisory output only fills the estimates and
// the reasoning text.
func (o *Orchestrator) Recommend(ctx context.Context, complaintID, userID string) (*Recommendation, error) {
	complaint, company, err := o.ownedComplaint(ctx, complaintID, userID)
	if err != nil {
		return nil, err
	}

	channels := o.ranker.RecommendChannels(complaint.Category, complaint.Priority)
	ranked := o.ranker.RankAndExplain(channels, complaint.Category, complaint.Priority)

	rec := &Recommendation{
		ComplaintID:             complaint.ID,
		Primary:                 ranked[:min(config.PrimaryChannelCount, len(ranked))],
		Secondary:               []models.ChannelRecommendation{},
		EstimatedSuccess:        config.DefaultEstimatedSuccess,
		EstimatedResolutionTime: config.DefaultEstimatedResolution,
		Reasoning: fmt.Sprintf("Baseado na categoria \"%s\" e prioridade \"%s\", selecionamos canais com maior probabilidade de sucesso e tempo de resolução adequado.",
			complaint.Category, complaint.Priority),
	}
	if len(ranked) > config.PrimaryChannelCount {
		rec.Secondary = ranked[config.PrimaryChannelCount:]
	}

	if o.advisor != nil {
		advice := o.advisor.Advise(ctx, advisor.Request{
			ComplaintID: complaint.ID,
			Title:       complaint.Title,
			Description: complaint.Description,
			Company:     company.Name,
			Category:    complaint.Category,
			Priority:    complaint.Priority,
		})
		if advice != nil {
			rec.Advice = advice
			rec.AIEnhanced = advice.Generated
			if advice.SuccessProbability != nil {
				rec.EstimatedSuccess = *advice.SuccessProbability
			}
			if advice.EstimatedResolutionTime != "" {
				rec.EstimatedResolutionTime = advice.EstimatedResolutionTime
			}
			if advice.Generated {
				rec.Reasoning = fmt.Sprintf("Análise combinando IA com dados históricos. Baseado na categoria \"%s\" e prioridade \"%s\".",
					complaint.Category, complaint.Priority)
			}
		}
	}

	return rec, nil
}

// DistributeRequest asks to send a complaint to the selected channels.
type DistributeRequest struct {
	ComplaintID string
	UserID      string
	Channels    []string
	Authorize   bool
}

type Summary struct {
	Total       int `json:"total"`
	Recommended int `json:"recommended"`
	Successful  int `json:"successful"`
}

// Result is the outcome of a distribution.
type Result struct {
	ComplaintID             string                         `json:"complaint_id"`
	Status                  models.Status                  `json:"status"`
	Channels                []models.ChannelRecommendation `json:"channels"`
	Submissions             []Submission                   `json:"submissions"`
	EstimatedResolutionTime string                         `json:"estimated_resolution_time"`
	NextSteps               []string                       `json:"next_steps"`
	Summary                 Summary                        `json:"summary"`
}

var nextSteps = []string{
	"Acompanhe o andamento da sua reclamação através dos links fornecidos",
	"Você receberá notificações sobre atualizações dos canais",
	"Mantenha seus documentos organizados para eventuais solicitações",
	"Responda prontamente a qualquer contato das empresas ou órgãos",
}

// Distribute submits the complaint to every selected channel concurrently
// and records the selection and tracking data. A complaint still in
// ANALYSIS moves to WAITING once at least one channel accepted it; later
// states are kept. A failed submission is reported in the result and never
// stops the others.
func (o *Orchestrator) Distribute(ctx context.Context, req DistributeRequest) (*Result, error) {
	if !req.Authorize {
		return nil, ErrNotAuthorized
	}
	selected := cleanChannels(req.Channels)
	if len(selected) == 0 {
		return nil, ErrNoChannels
	}

	complaint, company, err := o.ownedComplaint(ctx, req.ComplaintID, req.UserID)
	if err != nil {
		return nil, err
	}
	if complaint.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: status %s", ErrComplaintClosed, complaint.Status)
	}

	ranked := o.ranker.RankAndExplain(selected, complaint.Category, complaint.Priority)
	submissions := submitAll(ctx, o.submitter, complaint, company, selected)

	now := o.now()
	successful := 0
	var links []string
	urls := map[string]any{}
	for _, sub := range submissions {
		if !sub.Success {
			o.log.Warn("channel submission failed", "complaint_id", complaint.ID, "channel", sub.Channel, "error", sub.Error)
			continue
		}
		successful++
		if sub.TrackingURL != "" {
			urls[sub.Channel] = sub.TrackingURL
			links = append(links, fmt.Sprintf("%s: %s", sub.Channel, sub.TrackingURL))
		}
	}

	complaint.Channels = selected
	if successful > 0 && complaint.Status == models.StatusAnalysis {
		complaint.Status = models.StatusWaiting
	}
	complaint.Tracking = map[string]any{
		"submissions":   submissions,
		"tracking_urls": urls,
		"submitted_at":  now.UTC().Format(time.RFC3339),
	}
	if err := o.store.UpdateComplaint(ctx, complaint); err != nil {
		return nil, fmt.Errorf("update complaint %s: %w", complaint.ID, err)
	}

	message := fmt.Sprintf("Reclamação distribuída para os canais: %s.", strings.Join(selected, ", "))
	if len(links) > 0 {
		message += " Links de acompanhamento: " + strings.Join(links, "; ")
	}
	update := &models.Update{
		ComplaintID: complaint.ID,
		Message:     message,
		Source:      models.SourceSystem,
		Action:      models.ActionDistributed,
		Metadata: map[string]any{
			"channels":   selected,
			"successful": successful,
		},
		CreatedAt: now,
	}
	if err := o.store.AppendUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("append update to %s: %w", complaint.ID, err)
	}

	n := models.Notification{
		Type:        models.NotificationComplaintDistributed,
		UserID:      complaint.UserID,
		ComplaintID: complaint.ID,
		Title:       "Reclamação distribuída",
		Message:     fmt.Sprintf("Sua reclamação foi enviada para %d canais", successful),
		Metadata:    map[string]any{"channels": selected, "tracking_urls": urls},
	}
	if err := o.store.PublishNotification(ctx, n); err != nil {
		o.log.Warn("notification not published", "complaint_id", complaint.ID, "error", err)
	}

	recommended := 0
	for _, r := range ranked {
		if r.Recommended {
			recommended++
		}
	}
	o.log.Info("complaint distributed", "complaint_id", complaint.ID, "channels", len(selected), "successful", successful)

	return &Result{
		ComplaintID:             complaint.ID,
		Status:                  complaint.Status,
		Channels:                ranked,
		Submissions:             submissions,
		EstimatedResolutionTime: o.fastestResolution(selected),
		NextSteps:               nextSteps,
		Summary: Summary{
			Total:       len(selected),
			Recommended: recommended,
			Successful:  successful,
		},
	}, nil
}

func (o *Orchestrator) ownedComplaint(ctx context.Context, complaintID, userID string) (*models.Complaint, *models.Company, error) {
	complaint, err := o.store.GetComplaintByID(ctx, complaintID)
	if err != nil {
		return nil, nil, err
	}
	if complaint.UserID != userID {
		return nil, nil, ErrForbidden
	}
	company, err := o.store.GetCompanyByID(ctx, complaint.CompanyID)
	if err != nil {
		return nil, nil, fmt.Errorf("company of complaint %s: %w", complaint.ID, err)
	}
	return complaint, company, nil
}

// fastestResolution is the shortest average time among the known selected
// channels.
func (o *Orchestrator) fastestResolution(channels []string) string {
	fastest := math.MaxInt
	for _, ch := range channels {
		if eff, ok := o.ranker.Effectiveness(ch); ok && eff.AvgTime < fastest {
			fastest = eff.AvgTime
		}
	}
	if fastest == math.MaxInt {
		return config.DefaultEstimatedResolution
	}
	return fmt.Sprintf("%d dias", fastest)
}

func cleanChannels(channels []string) []string {
	seen := make(map[string]struct{}, len(channels))
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		ch = strings.TrimSpace(ch)
		if ch == "" {
			continue
		}
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		out = append(out, ch)
	}
	return out
}
