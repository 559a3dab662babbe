package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"centraldoconsumidor/backend/internal/api/middleware"
	"centraldoconsumidor/backend/internal/complaint"
	"centraldoconsumidor/backend/internal/distribution"
	"centraldoconsumidor/backend/internal/models"
	"centraldoconsumidor/backend/internal/storage"
)

type fileComplaintRequest struct {
	CompanyID   string   `json:"company_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
	Documents   []string `json:"documents"`
}

func (h *Handler) FileComplaint(c *gin.Context) {
	var req fileComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	var category models.Category
	if req.Category != "" {
		category, _ = models.ParseCategory(req.Category)
	}
	var priority models.Priority
	if req.Priority != "" {
		parsed, ok := models.ParsePriority(req.Priority)
		if !ok {
			h.badRequest(c, fmt.Errorf("unknown priority %q", req.Priority))
			return
		}
		priority = parsed
	}

	filed, err := h.Complaints.File(c.Request.Context(), complaint.FileRequest{
		UserID:      middleware.UserID(c),
		CompanyID:   req.CompanyID,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Priority:    priority,
		Documents:   req.Documents,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, filed)
}

type statusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	status, ok := models.ParseStatus(req.Status)
	if !ok {
		h.badRequest(c, fmt.Errorf("unknown status %q", req.Status))
		return
	}

	updated, err := h.Complaints.UpdateStatus(c.Request.Context(), complaint.StatusChange{
		ComplaintID: c.Param("id"),
		ActorID:     middleware.UserID(c),
		Status:      status,
		Source:      models.SourceUser,
		Message:     req.Message,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) ListComplaints(c *gin.Context) {
	var filter storage.ComplaintFilter
	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseStatus(raw)
		if !ok {
			h.badRequest(c, fmt.Errorf("unknown status %q", raw))
			return
		}
		filter.Status = status
	}
	if raw := c.Query("category"); raw != "" {
		category, ok := models.ParseCategory(raw)
		if !ok {
			h.badRequest(c, fmt.Errorf("unknown category %q", raw))
			return
		}
		filter.Category = category
	}

	complaints, err := h.Complaints.ListForUser(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "total": len(complaints)})
}

func (h *Handler) ComplaintRecommendations(c *gin.Context) {
	rec, err := h.Distribution.Recommend(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type distributeRequest struct {
	ComplaintID string   `json:"complaint_id" binding:"required"`
	Channels    []string `json:"channels"`
	Authorize   bool     `json:"authorize"`
}

func (h *Handler) DistributeComplaint(c *gin.Context) {
	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	result, err := h.Distribution.Distribute(c.Request.Context(), distribution.DistributeRequest{
		ComplaintID: req.ComplaintID,
		UserID:      middleware.UserID(c),
		Channels:    req.Channels,
		Authorize:   req.Authorize,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
