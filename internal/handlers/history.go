package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"window_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	errInvalidLimit     = "invalid 'limit'; use an integer between 1 and 500"
)

// parseLimit reads ?limit=N, defaulting when absent.
func parseLimit(c *gin.Context) (int, bool) {
	s := c.Query("limit")
	if s == "" {
		return defaultHistoryLimit, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (h *Handler) historyError(c *gin.Context, logKey string, err error) {
	if errors.Is(err, service.ErrInvalidLimit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, "failed to load history", logKey, err)
}

// @Summary      Recent temperature readings
// @Description  Newest first.
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "Max rows (1-500)"  default(20)
// @Success      200    {object}  map[string]interface{}  "count, readings"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/history/readings [get]
// @Security     BearerAuth
func (h *Handler) listReadings(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
		return
	}
	readings, err := h.services.History.Readings(c.Request.Context(), limit)
	if err != nil {
		h.historyError(c, "readings_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Recent notification attempts
// @Description  Newest first; failed deliveries included.
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "Max rows (1-500)"  default(20)
// @Success      200    {object}  map[string]interface{}  "count, notifications"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/history/notifications [get]
// @Security     BearerAuth
func (h *Handler) listNotifications(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
		return
	}
	notes, err := h.services.History.Notifications(c.Request.Context(), limit)
	if err != nil {
		h.historyError(c, "notifications_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(notes),
		"notifications": notes,
	})
}
