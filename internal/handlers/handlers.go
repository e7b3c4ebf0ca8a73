package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voyago/internal/cache"
	apperrors "voyago/internal/errors"
	"voyago/internal/service"
)

type Handlers struct {
	services    *service.Services
	redisClient *cache.RedisClient
}

func NewHandlers(services *service.Services, redisClient *cache.RedisClient) *Handlers {
	return &Handlers{
		services:    services,
		redisClient: redisClient,
	}
}

// respondError maps service errors onto HTTP statuses. Anything not matching
// a known sentinel is a 500 with a generic message.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case apperrors.Is(err, apperrors.ErrInsufficientCapacity):
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough units available"})
	case apperrors.Is(err, apperrors.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": "Already processed"})
	case apperrors.Is(err, apperrors.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case apperrors.Is(err, apperrors.ErrGateway):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// currentUserID reads the user id set by the JWT middleware.
func currentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
