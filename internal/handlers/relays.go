package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SetRelayRequest is the body of POST /api/v1/relays/{channel}.
type SetRelayRequest struct {
	State *bool `json:"state" binding:"required" example:"true"`
}

// @Summary      Relay states
// @Tags         relays
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "relays"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/relays [get]
// @Security     BearerAuth
func (h *Handler) getRelays(c *gin.Context) {
	states := h.services.Relays.States()
	c.JSON(http.StatusOK, gin.H{"relays": states[:]})
}

// @Summary      Switch a relay
// @Description  Manual switching also clears the channel's protection trip.
// @Tags         relays
// @Accept       json
// @Produce      json
// @Param        channel  path  int              true  "Channel (0-2)"
// @Param        body     body  SetRelayRequest  true  "Target state"
// @Success      200  {object}  map[string]interface{}  "status, channel, relays"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/relays/{channel} [post]
// @Security     BearerAuth
func (h *Handler) setRelay(c *gin.Context) {
	channel, err := strconv.Atoi(c.Param("channel"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
		return
	}
	var req SetRelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	if err := h.services.Relays.Set(c.Request.Context(), channel, *req.State); err != nil {
		h.respondServiceError(c, err, "relay_set_failed", "channel", channel, "state", *req.State)
		return
	}
	states := h.services.Relays.States()
	c.JSON(http.StatusOK, gin.H{
		"status":  statusOK,
		"channel": channel,
		"relays":  states[:],
	})
}
