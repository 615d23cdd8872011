package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"domainwatch/internal/scheduler"
	"domainwatch/internal/services"
)

type SettingsHandler struct {
	settings  *services.SettingsService
	scheduler *scheduler.Scheduler
}

func NewSettingsHandler(settings *services.SettingsService, sched *scheduler.Scheduler) *SettingsHandler {
	return &SettingsHandler{settings: settings, scheduler: sched}
}

// secretSettings are masked in GET responses. They can still be overwritten
// via PUT; a masked value sent back is ignored rather than stored.
var secretSettings = map[string]bool{
	services.SettingSMTPPass:         true,
	services.SettingTelegramBotToken: true,
}

const maskedValue = "********"

// Get returns all settings with secrets masked.
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings := h.settings.All()
	for key := range settings {
		if secretSettings[key] && settings[key] != "" {
			settings[key] = maskedValue
		}
	}
	c.JSON(http.StatusOK, settings)
}

// Update stores the provided settings. Unknown keys fail the whole request
// before anything is written. A changed cron schedule restarts the
// scheduler.
// PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	for key, value := range req {
		if !services.IsKnownSetting(key) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown setting: " + key})
			return
		}
		if key == services.SettingCronSchedule {
			if err := scheduler.Validate(value); err != nil {
				c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid cron expression"})
				return
			}
		}
	}

	for key, value := range req {
		if secretSettings[key] && value == maskedValue {
			continue
		}
		if err := h.settings.Set(key, value); err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to save settings"})
			return
		}
	}

	if _, ok := req[services.SettingCronSchedule]; ok && h.scheduler != nil {
		if err := h.scheduler.Restart(h.settings.CronSchedule()); err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to restart scheduler"})
			return
		}
	}

	c.Status(http.StatusNoContent)
}
