package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"domainwatch/internal/models"
	"domainwatch/internal/repository"
	"domainwatch/internal/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
	logRepo       *repository.NotificationLogRepository
}

func NewNotificationHandler(notifications *services.NotificationService, logRepo *repository.NotificationLogRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logRepo: logRepo}
}

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// List returns notification log entries, newest first. Optional query
// params: domain_id, limit, offset.
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", defaultLogLimit)
	if limit <= 0 || limit > maxLogLimit {
		limit = defaultLogLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	var entries []*models.NotificationLogEntry
	var err error
	if domainID := queryInt64(c, "domain_id"); domainID > 0 {
		entries, err = h.logRepo.ListByDomain(domainID, limit, offset)
	} else {
		entries, err = h.logRepo.List(limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list notifications"})
		return
	}
	if entries == nil {
		entries = []*models.NotificationLogEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

type testNotificationRequest struct {
	Channel string `json:"channel" binding:"required"`
}

type testNotificationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Test sends a test message through one channel with the current settings.
// Does not write to the notification log.
// POST /api/v1/notifications/test
func (h *NotificationHandler) Test(c *gin.Context) {
	var req testNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "channel is required"})
		return
	}

	channel := models.Channel(req.Channel)
	if channel != models.ChannelEmail && channel != models.ChannelTelegram {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown channel: " + req.Channel})
		return
	}

	result := h.notifications.SendTest(channel)
	c.JSON(http.StatusOK, testNotificationResponse{Success: result.Success, Error: result.Error})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryInt64(c *gin.Context, name string) int64 {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
