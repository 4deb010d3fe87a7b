package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetVoltageRequest selects the PD output level.
type SetVoltageRequest struct {
	Voltage int `json:"voltage" binding:"required" example:"12" enums:"5,9,12,15,20"`
}

// @Summary      PD output voltage
// @Tags         voltage
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/voltage [get]
// @Security     BearerAuth
func (h *Handler) getVoltage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"voltage": h.services.Voltage.Get()})
}

// @Summary      Set PD output voltage
// @Tags         voltage
// @Accept       json
// @Produce      json
// @Param        body  body  SetVoltageRequest  true  "Level in volts"
// @Success      200  {object}  map[string]int
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/voltage [post]
// @Security     BearerAuth
func (h *Handler) setVoltage(c *gin.Context) {
	var req SetVoltageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Voltage.Set(c.Request.Context(), req.Voltage); err != nil {
		h.respondServiceError(c, err, "voltage_set_failed", "voltage", req.Voltage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"voltage": h.services.Voltage.Get()})
}
