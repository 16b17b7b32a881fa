package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"window_advisor/internal/models"
	"window_advisor/internal/service"
	"window_advisor/internal/weather"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK         = "ok"
	statusWindowSet  = "window_set"
	statusModeSet    = "mode_set"
	statusReset      = "notifications_reset"
	defaultStatusLen = 3

	errGetState        = "failed to load state"
	errUpdateState     = "failed to update state"
	errRunCheck        = "check failed"
	errSourceDown      = "weather source unavailable"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// overrideError maps validation failures to 400 and everything else to 500.
func (h *Handler) overrideError(c *gin.Context, logKey string, err error) {
	if errors.Is(err, service.ErrInvalidWindowState) || errors.Is(err, service.ErrInvalidMode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, errUpdateState, logKey, err)
}

// SetWindowRequest is the payload of POST /api/v1/state/window.
type SetWindowRequest struct {
	// Actual window position. Allowed: open, closed
	WindowState string `json:"window_state" binding:"required" example:"open"`
}

// SetModeRequest is the payload of POST /api/v1/state/mode.
type SetModeRequest struct {
	// Seasonal mode. Allowed: cooling, heating
	Mode string `json:"mode" binding:"required" example:"heating"`
}

type stateResponse struct {
	Status string          `json:"status"`
	State  models.AppState `json:"state"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get advisor state
// @Tags         state
// @Produce      json
// @Success      200  {object}  models.AppState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      State with recent history
// @Tags         state
// @Produce      json
// @Param        recent  query  int  false  "Number of readings and notifications"  default(3)
// @Success      200  {object}  service.Status
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	recent := defaultStatusLen
	if s := c.Query("recent"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recent must be between 1 and 50"})
			return
		}
		recent = v
	}
	st, err := h.services.Monitoring.Status(c.Request.Context(), recent)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Record the actual window position
// @Tags         state
// @Accept       json
// @Produce      json
// @Param        body  body      SetWindowRequest  true  "Window payload"
// @Success      200   {object}  stateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/state/window [post]
// @Security     BearerAuth
func (h *Handler) setWindow(c *gin.Context) {
	var req SetWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	st, err := h.services.Override.SetWindow(c.Request.Context(), req.WindowState)
	if err != nil {
		h.overrideError(c, "set_window_failed", err)
		return
	}
	c.JSON(http.StatusOK, stateResponse{Status: statusWindowSet, State: st})
}

// @Summary      Switch seasonal mode
// @Tags         state
// @Accept       json
// @Produce      json
// @Param        body  body      SetModeRequest  true  "Mode payload"
// @Success      200   {object}  stateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/state/mode [post]
// @Security     BearerAuth
func (h *Handler) setMode(c *gin.Context) {
	var req SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	st, err := h.services.Override.SetMode(c.Request.Context(), req.Mode)
	if err != nil {
		h.overrideError(c, "set_mode_failed", err)
		return
	}
	c.JSON(http.StatusOK, stateResponse{Status: statusModeSet, State: st})
}

// @Summary      Clear the last notification
// @Tags         state
// @Produce      json
// @Success      200  {object}  stateResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state/reset [post]
// @Security     BearerAuth
func (h *Handler) resetNotifications(c *gin.Context) {
	st, err := h.services.Override.ResetNotifications(c.Request.Context())
	if err != nil {
		h.overrideError(c, "reset_notifications_failed", err)
		return
	}
	c.JSON(http.StatusOK, stateResponse{Status: statusReset, State: st})
}

// @Summary      Run one check cycle now
// @Tags         check
// @Produce      json
// @Success      200  {object}  service.CycleResult
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/check [post]
// @Security     BearerAuth
func (h *Handler) runCheck(c *gin.Context) {
	res, err := h.services.Checker.RunCycle(c.Request.Context())
	switch {
	case errors.Is(err, weather.ErrSourceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errSourceDown})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errRunCheck, "check_failed", err)
	default:
		c.JSON(http.StatusOK, res)
	}
}
