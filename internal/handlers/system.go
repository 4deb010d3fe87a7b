package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// ChannelPower is one channel of the /power response.
type ChannelPower struct {
	Current float64 `json:"current" example:"350.5"` // mA
	Voltage float64 `json:"voltage" example:"5.02"`  // V
	Power   float64 `json:"power" example:"1.76"`    // W
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

// @Summary      Device status
// @Description  Relays, last power sample, protection, PD voltage, version and uptime
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.Status
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load status", "status_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Power readings
// @Description  Last sample per channel, keyed channel1..channel3
// @Tags         power
// @Produce      json
// @Success      200  {object}  map[string]ChannelPower
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/power [get]
// @Security     BearerAuth
func (h *Handler) getPower(c *gin.Context) {
	readings := h.services.Monitoring.Readings()
	out := make(map[string]ChannelPower, len(readings))
	for i, r := range readings {
		out["channel"+strconv.Itoa(i+1)] = ChannelPower{Current: r.Current, Voltage: r.Voltage, Power: r.Power}
	}
	c.JSON(http.StatusOK, out)
}
