package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"centraldoconsumidor/backend/internal/models"
)

// RecommendChannels ranks the candidate channels for a category and
// priority. Unknown categories get the generic candidates and unknown
// priorities count as MEDIUM.
func (h *Handler) RecommendChannels(c *gin.Context) {
	category, _ := models.ParseCategory(c.Query("category"))
	priority, _ := models.ParsePriority(c.Query("priority"))

	channels := h.Channels.RecommendChannels(category, priority)
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"priority": priority,
		"channels": h.Channels.RankAndExplain(channels, category, priority),
	})
}

type rankRequest struct {
	Channels []string `json:"channels" binding:"required,min=1"`
	Category string   `json:"category"`
	Priority string   `json:"priority"`
}

func (h *Handler) RankChannels(c *gin.Context) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	category, _ := models.ParseCategory(req.Category)
	priority, _ := models.ParsePriority(req.Priority)

	c.JSON(http.StatusOK, gin.H{
		"channels": h.Channels.RankAndExplain(req.Channels, category, priority),
	})
}
