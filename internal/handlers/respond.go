package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ctecg/score-api/internal/services"
	apperrors "github.com/ctecg/score-api/pkg/errors"
)

// Envelope is the uniform response shape of every endpoint. Clients key off
// success and status_code rather than raw transport status, so both are
// always present, as is the timestamp.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Timestamp  string `json:"timestamp"`
}

func envelope(status int, success bool, message string, data any) Envelope {
	return Envelope{
		Success:    success,
		StatusCode: status,
		Message:    message,
		Data:       data,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// respondSuccess sends a success envelope
func respondSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope(status, true, message, data))
}

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error envelope
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, envelope(status, false, message, nil))
}

// respondAppError maps service errors onto transport status codes. Unknown
// errors become an opaque 500 so internals never leak to clients.
func respondAppError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrGone):
		respondError(c, http.StatusGone, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Authentication required", err)
	case apperrors.Is(err, apperrors.ErrForbidden):
		respondError(c, http.StatusForbidden, "Access denied", err)
	case apperrors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid email or password", err)
	case apperrors.Is(err, services.ErrCaptchaFailed):
		respondError(c, http.StatusBadRequest, "Captcha verification failed", err)
	case apperrors.Is(err, services.ErrPasswordAlreadySet):
		respondError(c, http.StatusConflict, "Password has already been set", err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// respondValidationError reports request binding failures in the envelope's
// message, with field details in data
func respondValidationError(c *gin.Context, err error) {
	attachError(c, err)
	details := ParseValidationErrors(err)
	c.JSON(http.StatusBadRequest, envelope(http.StatusBadRequest, false, "Validation failed",
		gin.H{"validation_errors": details}))
}
