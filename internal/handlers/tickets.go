package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventide/internal/models"
)

// PurchaseTicket - POST /api/tickets
// Admits the caller to an event with a new pending ticket.
func (h *Handlers) PurchaseTicket(c *gin.Context) {
	var req models.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	ticket, err := h.services.Admission.Purchase(c.Request.Context(), userID(c), req.EventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    ticket,
	})
}

// CancelTicket - PATCH /api/tickets/cancel
func (h *Handlers) CancelTicket(c *gin.Context) {
	var req models.CancelTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.services.Admission.Cancel(c.Request.Context(), req.TicketID, userID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RedeemTicket - GET /api/tickets/verify/:token
// Consumes a redemption token at the door; exactly one scan wins.
func (h *Handlers) RedeemTicket(c *gin.Context) {
	result, err := h.services.Redemption.Redeem(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
