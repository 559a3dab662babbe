// Package handler exposes the portal's channel, reputation and complaint
// operations over HTTP with gin.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"centraldoconsumidor/backend/internal/api/middleware"
	"centraldoconsumidor/backend/internal/complaint"
	"centraldoconsumidor/backend/internal/distribution"
	"centraldoconsumidor/backend/internal/escalation"
	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/models"
	"centraldoconsumidor/backend/internal/storage"
)

// ChannelScorer is the channel recommender.
type ChannelScorer interface {
	RecommendChannels(category models.Category, priority models.Priority) []string
	RankAndExplain(channels []string, category models.Category, priority models.Priority) []models.ChannelRecommendation
}

// ReputationService serves company reputation.
type ReputationService interface {
	Get(ctx context.Context, companyID string) (*models.CompanyReputation, error)
	Refresh(ctx context.Context, companyID string) (*models.CompanyReputation, error)
	History(ctx context.Context, companyID string, days int) ([]models.ReputationHistory, error)
	TopCompanies(ctx context.Context, limit int, category models.Category) ([]models.CompanyReputation, error)
	Ranking(ctx context.Context, companyID string) (*models.CategoryRanking, error)
}

// ComplaintService runs the complaint lifecycle.
type ComplaintService interface {
	File(ctx context.Context, req complaint.FileRequest) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, change complaint.StatusChange) (*models.Complaint, error)
	ListForUser(ctx context.Context, userID string, filter storage.ComplaintFilter) ([]models.Complaint, error)
}

// Distributor recommends and distributes complaints to external channels.
type Distributor interface {
	Recommend(ctx context.Context, complaintID, userID string) (*distribution.Recommendation, error)
	Distribute(ctx context.Context, req distribution.DistributeRequest) (*distribution.Result, error)
}

// EscalationService runs legal escalation requests.
type EscalationService interface {
	Estimate(ctx context.Context, complaintID, userID string, complexity escalation.Complexity) (*escalation.Estimate, error)
	Create(ctx context.Context, req escalation.Request) (*models.Escalation, error)
	ListForUser(ctx context.Context, userID string) ([]models.Escalation, error)
	Cancel(ctx context.Context, id, userID string) (*models.Escalation, error)
}

// NotificationInbox serves a user's delivered notifications.
type NotificationInbox interface {
	ListUserNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.UserNotification, error)
	MarkNotificationRead(ctx context.Context, userID string, id uint) error
}

// Handler holds the services behind the HTTP API.
type Handler struct {
	Channels      ChannelScorer
	Reputation    ReputationService
	Complaints    ComplaintService
	Distribution  Distributor
	Escalations   EscalationService
	Notifications NotificationInbox
	Localizer     middleware.Localizer
	log           *slog.Logger
}

func NewHandler(channels ChannelScorer, reputation ReputationService, complaints ComplaintService, distributor Distributor, escalations EscalationService, inbox NotificationInbox, loc middleware.Localizer) *Handler {
	return &Handler{
		Channels:      channels,
		Reputation:    reputation,
		Complaints:    complaints,
		Distribution:  distributor,
		Escalations:   escalations,
		Notifications: inbox,
		Localizer:     loc,
		log:           logging.New("api"),
	}
}

// Register mounts every route on r. requireUser guards the complaint routes.
func (h *Handler) Register(r gin.IRouter, requireUser gin.HandlerFunc) {
	r.GET("/health", h.Health)

	channels := r.Group("/channels")
	channels.GET("/recommend", h.RecommendChannels)
	channels.POST("/rank", h.RankChannels)

	companies := r.Group("/companies")
	companies.GET("/top", h.TopCompanies)
	companies.GET("/:id/reputation", h.GetReputation)
	companies.POST("/:id/reputation/refresh", h.RefreshReputation)
	companies.GET("/:id/reputation/history", h.ReputationHistory)
	companies.GET("/:id/ranking", h.CategoryRanking)

	complaints := r.Group("/complaints", requireUser)
	complaints.GET("", h.ListComplaints)
	complaints.POST("", h.FileComplaint)
	complaints.PATCH("/:id/status", h.UpdateComplaintStatus)
	complaints.GET("/:id/recommendations", h.ComplaintRecommendations)
	complaints.POST("/distribute", h.DistributeComplaint)
	complaints.GET("/:id/escalations/estimate", h.EstimateEscalation)
	complaints.POST("/:id/escalations", h.CreateEscalation)

	r.GET("/escalations/quote", h.QuoteEscalation)
	escalations := r.Group("/escalations", requireUser)
	escalations.GET("", h.ListEscalations)
	escalations.PATCH("/:id/cancel", h.CancelEscalation)

	notifications := r.Group("/notifications", requireUser)
	notifications.GET("", h.ListNotifications)
	notifications.PATCH("/:id/read", h.MarkNotificationRead)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	lang := h.Localizer.Language(c.GetHeader("Accept-Language"))
	body := gin.H{"error": h.Localizer.GetString(lang, "error.invalid_request"), "code": "error.invalid_request"}
	if err != nil {
		body["detail"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

// fail maps a service error to its HTTP status and localized message.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		middleware.AbortWithError(c, h.Localizer, http.StatusNotFound, "error.not_found")
	case errors.Is(err, complaint.ErrInvalidComplaint), errors.Is(err, escalation.ErrInvalidEscalation):
		h.badRequest(c, err)
	case errors.Is(err, complaint.ErrInvalidTransition), errors.Is(err, escalation.ErrInvalidTransition):
		middleware.AbortWithError(c, h.Localizer, http.StatusBadRequest, "error.invalid_transition")
	case errors.Is(err, distribution.ErrNotAuthorized):
		middleware.AbortWithError(c, h.Localizer, http.StatusBadRequest, "error.not_authorized")
	case errors.Is(err, distribution.ErrNoChannels):
		middleware.AbortWithError(c, h.Localizer, http.StatusBadRequest, "error.no_channels")
	case errors.Is(err, distribution.ErrComplaintClosed), errors.Is(err, escalation.ErrComplaintClosed):
		middleware.AbortWithError(c, h.Localizer, http.StatusBadRequest, "error.complaint_closed")
	case errors.Is(err, escalation.ErrAlreadyOpen):
		middleware.AbortWithError(c, h.Localizer, http.StatusConflict, "error.escalation_open")
	case errors.Is(err, escalation.ErrNotCancellable):
		middleware.AbortWithError(c, h.Localizer, http.StatusBadRequest, "error.escalation_completed")
	case errors.Is(err, complaint.ErrForbidden), errors.Is(err, distribution.ErrForbidden), errors.Is(err, escalation.ErrForbidden):
		middleware.AbortWithError(c, h.Localizer, http.StatusForbidden, "error.forbidden")
	default:
		h.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		middleware.AbortWithError(c, h.Localizer, http.StatusInternalServerError, "error.internal")
	}
}
