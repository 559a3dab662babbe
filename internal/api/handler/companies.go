package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"centraldoconsumidor/backend/internal/models"
)

func (h *Handler) TopCompanies(c *gin.Context) {
	limit, err := optionalInt(c, "limit")
	if err != nil {
		h.badRequest(c, err)
		return
	}

	var category models.Category
	if raw := c.Query("category"); raw != "" {
		parsed, ok := models.ParseCategory(raw)
		if !ok {
			h.badRequest(c, fmt.Errorf("unknown category %q", raw))
			return
		}
		category = parsed
	}

	companies, err := h.Reputation.TopCompanies(c.Request.Context(), limit, category)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *Handler) GetReputation(c *gin.Context) {
	rep, err := h.Reputation.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) RefreshReputation(c *gin.Context) {
	rep, err := h.Reputation.Refresh(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) ReputationHistory(c *gin.Context) {
	days, err := optionalInt(c, "days")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	history, err := h.Reputation.History(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company_id": c.Param("id"), "history": history})
}

// CategoryRanking returns null ranking when the company has no peers.
func (h *Handler) CategoryRanking(c *gin.Context) {
	ranking, err := h.Reputation.Ranking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company_id": c.Param("id"), "ranking": ranking})
}

// optionalInt reads a non-negative integer query parameter; absent is 0.
func optionalInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}
