package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"centraldoconsumidor/backend/internal/api/middleware"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	unread := c.Query("unread") == "true"
	list, err := h.Notifications.ListUserNotifications(c.Request.Context(), middleware.UserID(c), unread)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list, "total": len(list)})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.Notifications.MarkNotificationRead(c.Request.Context(), middleware.UserID(c), uint(id)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
