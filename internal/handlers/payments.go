package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventide/internal/apperrors"
	"eventide/internal/logger"
	"eventide/internal/models"
)

// signatureHeader is the header Paystack delivers the HMAC signature in
const signatureHeader = "x-paystack-signature"

// InitializePayment - POST /api/payments/initialize
func (h *Handlers) InitializePayment(c *gin.Context) {
	var req models.InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.services.Settlement.Initialize(
		c.Request.Context(), userID(c), req.TicketID, req.Email, req.AmountMinor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

// HandleWebhook - POST /api/webhooks/paystack
// The gateway delivers at least once and only needs an acknowledgement.
// Business non-events return 200 with a negative result; signature
// failures are rejected loudly; infrastructure errors return 5xx so the
// gateway redelivers.
func (h *Handlers) HandleWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to read body"})
		return
	}

	result, err := h.services.Settlement.Reconcile(
		c.Request.Context(), rawBody, c.GetHeader(signatureHeader))
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}
		logger.WithContext(c.Request.Context()).Error("Webhook processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to process webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// VerifyPayment - GET /api/payments/verify?reference=...
// Manual reconciliation against the gateway's view of a transaction.
func (h *Handlers) VerifyPayment(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "reference is required"})
		return
	}

	data, err := h.services.Settlement.Verify(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
