package handlers

import (
	"errors"
	"net/http"

	"power_relay/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidBodyPref  = "invalid body: "
	errInternal         = "internal error"
	errNotPersistedPref = "change is live but was not saved: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateID), errors.Is(err, service.ErrCapacityExceeded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the mapped status. Rejected input is echoed back;
// unexpected failures are logged and hidden behind a generic message.
func (h *Handler) respondServiceError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code := statusForError(err)
	switch {
	case errors.Is(err, service.ErrPersistence):
		h.logAndJSONError(c, code, errNotPersistedPref+err.Error(), logKey, err, kv...)
	case code == http.StatusInternalServerError:
		h.logAndJSONError(c, code, errInternal, logKey, err, kv...)
	default:
		c.JSON(code, gin.H{"error": err.Error()})
	}
}
