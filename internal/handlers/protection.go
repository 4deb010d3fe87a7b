package handlers

import (
	"net/http"

	"power_relay/internal/models"

	"github.com/gin-gonic/gin"
)

// SetProtectionRequest carries per-channel limits in mA. Omitted channels
// keep their current limit; 0 disables protection.
type SetProtectionRequest struct {
	Channel1 *uint16 `json:"channel1,omitempty" example:"500"`
	Channel2 *uint16 `json:"channel2,omitempty" example:"0"`
	Channel3 *uint16 `json:"channel3,omitempty" example:"1200"`
}

// @Summary      Protection limits
// @Tags         protection
// @Produce      json
// @Success      200  {object}  models.ProtectionLimits
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/protection [get]
// @Security     BearerAuth
func (h *Handler) getProtection(c *gin.Context) {
	c.JSON(http.StatusOK, models.LimitsFromArray(h.services.Protection.Limits()))
}

// @Summary      Set protection limits
// @Tags         protection
// @Accept       json
// @Produce      json
// @Param        body  body  SetProtectionRequest  true  "Limits in mA"
// @Success      200  {object}  models.ProtectionLimits
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/protection [post]
// @Security     BearerAuth
func (h *Handler) setProtection(c *gin.Context) {
	var req SetProtectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	limits := h.services.Protection.Limits()
	for ch, v := range []*uint16{req.Channel1, req.Channel2, req.Channel3} {
		if v != nil {
			limits[ch] = *v
		}
	}
	if err := h.services.Protection.SetLimits(c.Request.Context(), limits); err != nil {
		h.respondServiceError(c, err, "protection_set_failed", "limits", limits)
		return
	}
	c.JSON(http.StatusOK, models.LimitsFromArray(h.services.Protection.Limits()))
}

// @Summary      Protection status
// @Description  Limit, trip flag and last current per channel
// @Tags         protection
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "channels"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/protection/status [get]
// @Security     BearerAuth
func (h *Handler) getProtectionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": h.services.Protection.Status()})
}
