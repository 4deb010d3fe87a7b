package handlers

import (
	"net/http"
	"strconv"

	"power_relay/internal/models"

	"github.com/gin-gonic/gin"
)

// AddTimerRequest is the body of POST /api/v1/timers. Omitted id means
// "assign one"; enabled defaults to true and repeat to ONCE.
type AddTimerRequest struct {
	ID       uint32 `json:"id,omitempty" example:"0"`
	RelayID  *int   `json:"relayId" binding:"required" example:"0"`
	Hour     *int   `json:"hour" binding:"required" example:"7"`
	Minute   *int   `json:"minute" binding:"required" example:"30"`
	Enabled  *bool  `json:"enabled,omitempty" example:"true"`
	State    bool   `json:"state" example:"true"`
	Repeat   *int   `json:"repeat,omitempty" example:"2"` // 0=ONCE 1=DAILY 2=WEEKDAY 3=WEEKEND 4=CUSTOM
	Weekdays uint8  `json:"weekdays,omitempty" example:"34"`
}

func (r AddTimerRequest) toTimer() models.Timer {
	t := models.Timer{
		ID:       r.ID,
		RelayID:  *r.RelayID,
		Hour:     *r.Hour,
		Minute:   *r.Minute,
		Enabled:  true,
		State:    r.State,
		Repeat:   models.RepeatOnce,
		Weekdays: r.Weekdays,
	}
	if r.Enabled != nil {
		t.Enabled = *r.Enabled
	}
	if r.Repeat != nil {
		t.Repeat = models.RepeatMode(*r.Repeat)
	}
	return t
}

func parseTimerID(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timer id"})
		return 0, false
	}
	return uint32(id), true
}

// @Summary      List timers
// @Tags         timers
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, max, timers"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/timers [get]
// @Security     BearerAuth
func (h *Handler) listTimers(c *gin.Context) {
	timers := h.services.Timers.List()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(timers),
		"max":    models.MaxTimers,
		"timers": timers,
	})
}

// @Summary      Add timer
// @Tags         timers
// @Accept       json
// @Produce      json
// @Param        body  body  AddTimerRequest  true  "Timer"
// @Success      201  {object}  models.Timer
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timers [post]
// @Security     BearerAuth
func (h *Handler) addTimer(c *gin.Context) {
	var req AddTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	id, err := h.services.Timers.Add(c.Request.Context(), req.toTimer())
	if err != nil {
		h.respondServiceError(c, err, "timer_add_failed")
		return
	}
	t, _ := h.services.Timers.Get(id)
	c.JSON(http.StatusCreated, t)
}

// @Summary      Get timer
// @Tags         timers
// @Produce      json
// @Param        id  path  int  true  "Timer id"
// @Success      200  {object}  models.Timer
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/timers/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTimer(c *gin.Context) {
	id, ok := parseTimerID(c)
	if !ok {
		return
	}
	t, found := h.services.Timers.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "timer not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary      Update timer
// @Description  Only the fields present in the body change.
// @Tags         timers
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "Timer id"
// @Param        body  body  models.TimerPatch  true  "Fields to change"
// @Success      200  {object}  models.Timer
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timers/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTimer(c *gin.Context) {
	id, ok := parseTimerID(c)
	if !ok {
		return
	}
	var patch models.TimerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	if err := h.services.Timers.Update(c.Request.Context(), id, patch); err != nil {
		h.respondServiceError(c, err, "timer_update_failed", "id", id)
		return
	}
	t, _ := h.services.Timers.Get(id)
	c.JSON(http.StatusOK, t)
}

// @Summary      Delete timer
// @Tags         timers
// @Produce      json
// @Param        id  path  int  true  "Timer id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timers/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTimer(c *gin.Context) {
	id, ok := parseTimerID(c)
	if !ok {
		return
	}
	if err := h.services.Timers.Remove(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "timer_delete_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
