package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/veritoken/custody-indexer/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler *Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Provenance validation (open: anyone may verify a token)
		v1.POST("/tokens/:id/validate", handler.ValidateToken)
		v1.POST("/validations", handler.ValidateBatch)

		// Custody operations (require an authenticated account)
		v1.POST("/tokens", middleware.Auth(authCfg), handler.Mint)
		v1.POST("/transfers", middleware.Auth(authCfg), handler.Transfer)
		v1.POST("/approvals", middleware.Auth(authCfg), handler.Approve)

		// Ledger and metadata reads (require authentication)
		v1.GET("/accounts/:address/balance", middleware.Auth(authCfg), handler.Balance)
		v1.GET("/accounts/:address/tokens", middleware.Auth(authCfg), handler.Tokens)
		v1.POST("/token-info", middleware.Auth(authCfg), handler.TokenInfo)
	}
}
