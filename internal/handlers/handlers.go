package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventide/internal/apperrors"
	"eventide/internal/service"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// statusFor maps the core error taxonomy to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrDuplicateTicket),
		errors.Is(err, apperrors.ErrSoldOut):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrEventNotOnSale),
		errors.Is(err, apperrors.ErrTicketNotPending),
		errors.Is(err, apperrors.ErrTicketNotPaid),
		errors.Is(err, apperrors.ErrTicketScanned),
		errors.Is(err, apperrors.ErrAmountMismatch),
		errors.Is(err, apperrors.ErrInvalidOrExpired):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func userID(c *gin.Context) string {
	return c.GetString("user_id")
}
