package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"centraldoconsumidor/backend/internal/api/middleware"
	"centraldoconsumidor/backend/internal/escalation"
	"centraldoconsumidor/backend/internal/models"
)

func complexityParam(raw string) (escalation.Complexity, error) {
	complexity, ok := escalation.ParseComplexity(raw)
	if !ok {
		return "", fmt.Errorf("unknown complexity %q", raw)
	}
	return complexity, nil
}

// QuoteEscalation prices an escalation for a category. Unknown categories
// get the general consumer petition.
func (h *Handler) QuoteEscalation(c *gin.Context) {
	complexity, err := complexityParam(c.Query("complexity"))
	if err != nil {
		h.badRequest(c, err)
		return
	}
	category, _ := models.ParseCategory(c.Query("category"))
	c.JSON(http.StatusOK, escalation.Quote(category, complexity))
}

func (h *Handler) EstimateEscalation(c *gin.Context) {
	complexity, err := complexityParam(c.Query("complexity"))
	if err != nil {
		h.badRequest(c, err)
		return
	}
	est, err := h.Escalations.Estimate(c.Request.Context(), c.Param("id"), middleware.UserID(c), complexity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

type escalationRequest struct {
	Reason         string `json:"reason" binding:"required"`
	AdditionalInfo string `json:"additional_info"`
	Complexity     string `json:"complexity"`
}

func (h *Handler) CreateEscalation(c *gin.Context) {
	var req escalationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	complexity, err := complexityParam(req.Complexity)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	created, err := h.Escalations.Create(c.Request.Context(), escalation.Request{
		ComplaintID:    c.Param("id"),
		UserID:         middleware.UserID(c),
		Reason:         req.Reason,
		AdditionalInfo: req.AdditionalInfo,
		Complexity:     complexity,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListEscalations(c *gin.Context) {
	list, err := h.Escalations.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"escalations": list, "total": len(list)})
}

func (h *Handler) CancelEscalation(c *gin.Context) {
	cancelled, err := h.Escalations.Cancel(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}
