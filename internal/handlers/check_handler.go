package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"domainwatch/internal/services"
)

type CheckHandler struct {
	checker *services.CheckerService
}

func NewCheckHandler(checker *services.CheckerService) *CheckHandler {
	return &CheckHandler{checker: checker}
}

// Trigger starts a full check run over all enabled domains and returns the
// run summary once the run completes. Overlapping triggers get 409; the
// in-flight run is unaffected.
// POST /api/v1/check
func (h *CheckHandler) Trigger(c *gin.Context) {
	summary, err := h.checker.CheckAll(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrCheckInProgress):
		c.JSON(http.StatusConflict, errorResponse{Error: "a check run is already in progress"})
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// Client went away mid-run; partial progress is already persisted.
		c.JSON(http.StatusOK, summary)
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "check run failed"})
	default:
		c.JSON(http.StatusOK, summary)
	}
}

type checkStatusResponse struct {
	Running bool `json:"running"`
}

// Status reports whether a run is currently in flight.
// GET /api/v1/check/status
func (h *CheckHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, checkStatusResponse{Running: h.checker.Running()})
}
