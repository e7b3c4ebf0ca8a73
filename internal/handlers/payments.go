package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "voyago/internal/errors"
	"voyago/internal/models"
)

// Payments handlers

// CreatePayment - POST /api/payments
func (h *Handlers) CreatePayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Payments.Create(c.Request.Context(), userID, req.BookingID)
	if err != nil {
		slog.Error("Failed to create payment", "error", err, "booking_id", req.BookingID)
		respondError(c, err, "Failed to create payment")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// PaymentStatus - GET /api/payments/status?orderId=...&requestId=...
func (h *Handlers) PaymentStatus(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}
	requestID := c.Query("requestId")

	response, err := h.services.Payments.CheckStatus(c.Request.Context(), orderID, requestID)
	if err != nil {
		slog.Error("Failed to check payment status", "error", err, "order_id", orderID)
		respondError(c, err, "Failed to check payment status")
		return
	}

	c.JSON(http.StatusOK, response)
}

// PaymentCallback - POST /api/payments/ipn
// The gateway retries non-200 responses, so this endpoint acknowledges every
// well-formed delivery with 200 and logs processing failures instead of
// surfacing them.
func (h *Handlers) PaymentCallback(c *gin.Context) {
	var payload models.PaymentCallbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		slog.Warn("Malformed payment callback", "error", err)
		c.JSON(http.StatusOK, gin.H{"resultCode": 1, "message": "malformed payload"})
		return
	}

	err := h.services.Payments.HandleCallback(c.Request.Context(), &payload)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"resultCode": 0, "message": "success"})
	case apperrors.Is(err, apperrors.ErrInvalidSignature):
		slog.Warn("Payment callback signature mismatch", "order_id", payload.OrderID)
		c.JSON(http.StatusOK, gin.H{"resultCode": 1, "message": "invalid signature"})
	case apperrors.Is(err, apperrors.ErrAlreadyProcessed):
		c.JSON(http.StatusOK, gin.H{"resultCode": 0, "message": "already processed"})
	default:
		slog.Error("Failed to process payment callback", "error", err, "order_id", payload.OrderID)
		c.JSON(http.StatusOK, gin.H{"resultCode": 1, "message": "processing failed"})
	}
}
