package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saarock/sopy-ecommerce/internal/service"
)

type NotificationHandler struct {
	notes *service.NotificationSvc
}

func NewNotificationHandler(notes *service.NotificationSvc) *NotificationHandler {
	return &NotificationHandler{notes: notes}
}

// GET /v1/notifications?is_read=false&page=1&page_size=20
func (h *NotificationHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	var isRead *bool
	if v := c.Query("is_read"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_read must be a boolean"})
			return
		}
		isRead = &b
	}
	res, err := h.notes.ListForUser(c.Request.Context(), principalID(c), isRead, page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var in struct {
		IsRead *bool `json:"is_read" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.notes.MarkRead(c.Request.Context(), c.Param("id"), principalID(c), *in.IsRead); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	return page, size
}
