package handler

import (
	"errors"
	"log"
	"net/http"

	"uptime_monitor/internal/model"
	"uptime_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// TokenHeader carries the opaque token id on authenticated requests
const TokenHeader = "token"

// CheckHandler handles check registration requests
type CheckHandler struct {
	service service.CheckService
}

// NewCheckHandler creates a new CheckHandler
func NewCheckHandler(s service.CheckService) *CheckHandler {
	return &CheckHandler{service: s}
}

func (h *CheckHandler) Create(c *gin.Context) {
	var req model.CreateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have a problem in your request"})
		return
	}

	check, err := h.service.CreateCheck(c.Request.Context(), c.GetHeader(TokenHeader), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have a problem in your request"})
		case errors.Is(err, service.ErrAuthentication):
			c.JSON(http.StatusForbidden, gin.H{"error": "Authentication problem"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusForbidden, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrTokenInvalid):
			c.JSON(http.StatusForbidden, gin.H{"error": "Token expired or Authentication failed"})
		case errors.Is(err, service.ErrMaxChecksReached):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User already reached max check limit"})
		default:
			log.Printf("Error creating check: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "There was a problem in the server side"})
		}
		return
	}

	c.JSON(http.StatusOK, check)
}

// RegisterCheckRoutes registers check routes
func (h *CheckHandler) RegisterCheckRoutes(rg *gin.RouterGroup) {
	rg.POST("/checks", h.Create)
}
