package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyago/internal/models"
)

// Bookings handlers

// CreateBooking - POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ResourceType(req.ResourceType).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown resource type"})
		return
	}

	response, err := h.services.Bookings.Create(c.Request.Context(), userID, &req)
	if err != nil {
		slog.Error("Failed to create booking", "error", err, "user_id", userID)
		respondError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListBookings - GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Bookings.List(c.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to list bookings", "error", err, "user_id", userID)
		respondError(c, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, response)
}

// CancelBooking - PATCH /api/bookings/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Bookings.Cancel(c.Request.Context(), userID, req.BookingID); err != nil {
		slog.Error("Failed to cancel booking", "error", err, "booking_id", req.BookingID)
		respondError(c, err, "Failed to cancel booking")
		return
	}

	c.Status(http.StatusOK)
}
