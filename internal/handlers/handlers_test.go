package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventide/internal/apperrors"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrEventNotFound, http.StatusNotFound},
		{apperrors.ErrTicketNotFound, http.StatusNotFound},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrDuplicateTicket, http.StatusConflict},
		{apperrors.ErrSoldOut, http.StatusConflict},
		{apperrors.ErrEventNotOnSale, http.StatusBadRequest},
		{apperrors.ErrTicketNotPending, http.StatusBadRequest},
		{apperrors.ErrTicketNotPaid, http.StatusBadRequest},
		{apperrors.ErrTicketScanned, http.StatusBadRequest},
		{apperrors.ErrAmountMismatch, http.StatusBadRequest},
		{apperrors.ErrInvalidOrExpired, http.StatusBadRequest},
		{apperrors.ErrInvalidSignature, http.StatusUnauthorized},
		{apperrors.ErrGateway, http.StatusBadGateway},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "error: %v", tc.err)
	}

	// Wrapped errors keep their mapping.
	wrapped := fmt.Errorf("initialize: %w", apperrors.ErrGateway)
	assert.Equal(t, http.StatusBadGateway, statusFor(wrapped))
}
