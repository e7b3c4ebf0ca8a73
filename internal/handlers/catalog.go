package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voyago/internal/models"
)

// Catalog handlers

// CreateFlight - POST /api/flights
func (h *Handlers) CreateFlight(c *gin.Context) {
	var req models.CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Catalog.CreateFlight(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create flight", "error", err)
		respondError(c, err, "Failed to create flight")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetFlight - GET /api/flights/:id
func (h *Handlers) GetFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flight ID"})
		return
	}

	flight, err := h.services.Catalog.GetFlight(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get flight")
		return
	}

	c.JSON(http.StatusOK, flight)
}

// CreateHotelRoom - POST /api/hotel-rooms
func (h *Handlers) CreateHotelRoom(c *gin.Context) {
	var req models.CreateHotelRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Catalog.CreateHotelRoom(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create hotel room", "error", err)
		respondError(c, err, "Failed to create hotel room")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetHotelRoom - GET /api/hotel-rooms/:id
func (h *Handlers) GetHotelRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel room ID"})
		return
	}

	room, err := h.services.Catalog.GetHotelRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get hotel room")
		return
	}

	c.JSON(http.StatusOK, room)
}

// CreateTour - POST /api/tours
func (h *Handlers) CreateTour(c *gin.Context) {
	var req models.CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Catalog.CreateTour(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create tour", "error", err)
		respondError(c, err, "Failed to create tour")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetTour - GET /api/tours/:id
func (h *Handlers) GetTour(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tour ID"})
		return
	}

	tour, err := h.services.Catalog.GetTour(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get tour")
		return
	}

	c.JSON(http.StatusOK, tour)
}

// ListTours - GET /api/tours?page=1&pageSize=20
// Plain listings are served from Redis when possible; search queries always
// go to Elasticsearch.
func (h *Handlers) ListTours(c *gin.Context) {
	query := c.Query("query")
	destination := c.Query("destination")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}

	if query != "" || destination != "" {
		response, err := h.services.Catalog.SearchTours(c.Request.Context(), query, destination, page, pageSize)
		if err != nil {
			slog.Error("Failed to search tours", "error", err, "query", query)
			respondError(c, err, "Failed to search tours")
			return
		}
		c.JSON(http.StatusOK, response)
		return
	}

	if h.redisClient != nil {
		// Raw JSON straight through on a hit
		rawJSON, err := h.redisClient.GetTourListRaw(c.Request.Context(), page, pageSize)
		if err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	response, err := h.services.Catalog.ListTours(c.Request.Context(), page, pageSize)
	if err != nil {
		slog.Error("Failed to list tours", "error", err)
		respondError(c, err, "Failed to list tours")
		return
	}

	if h.redisClient != nil {
		if err := h.redisClient.SetTourList(c.Request.Context(), page, pageSize, response); err != nil {
			slog.Warn("Failed to cache tour list", "error", err)
		}
	}

	c.JSON(http.StatusOK, response)
}

// SearchTours - GET /api/tours/search?query=&destination=
func (h *Handlers) SearchTours(c *gin.Context) {
	query := c.Query("query")
	destination := c.Query("destination")
	if query == "" && destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query or destination is required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}

	response, err := h.services.Catalog.SearchTours(c.Request.Context(), query, destination, page, pageSize)
	if err != nil {
		slog.Error("Failed to search tours", "error", err, "query", query)
		respondError(c, err, "Failed to search tours")
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateVehicleTrip - POST /api/vehicle-trips
func (h *Handlers) CreateVehicleTrip(c *gin.Context) {
	var req models.CreateVehicleTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Catalog.CreateVehicleTrip(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create vehicle trip", "error", err)
		respondError(c, err, "Failed to create vehicle trip")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetVehicleTrip - GET /api/vehicle-trips/:id
func (h *Handlers) GetVehicleTrip(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle trip ID"})
		return
	}

	trip, err := h.services.Catalog.GetVehicleTrip(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get vehicle trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}
