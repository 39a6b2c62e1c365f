package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-observations/internal/api/middleware"
)

// SetupRoutes configures the query API routes (public read access)
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Artifact endpoints
		v1.GET("/artifacts/:collection/:token_id", handler.GetArtifact)
		v1.GET("/artifacts/:collection/:token_id/observations", handler.GetArtifactObservations)

		// Feeds
		v1.GET("/observations/recent", handler.GetRecentObservations)
		v1.GET("/collections/:collection/artifacts", handler.GetCollectionArtifacts)
		v1.GET("/collections/:collection/observations", handler.GetCollectionObservations)
		v1.GET("/observers/:observer/observations", handler.GetObserverObservations)

		// Tip endpoints
		v1.GET("/tips/:recipient", handler.GetTip)
		v1.GET("/collections/:collection/tips", handler.GetCollectionTip)
	}
}

// SetupLedgerRoutes configures the ledger node routes
func SetupLedgerRoutes(router *gin.Engine, handler LedgerHandler, authCfg middleware.AuthConfig) {
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Writes act as the JWT subject
		v1.POST("/observations", middleware.CallerAuth(authCfg), handler.Observe)
		v1.POST("/tips/:recipient/claim", middleware.CallerAuth(authCfg), handler.ClaimTips)

		// Reads (public read access)
		v1.GET("/artifacts/:collection/:token_id", handler.GetArtifact)
		v1.GET("/artifacts/:collection/:token_id/observations", handler.GetArtifactObservations)
		v1.GET("/tips/:recipient", handler.GetTipBalance)
		v1.GET("/accounts/:address/balance", handler.GetBalance)

		// Devnet faucet (requires API key authentication only)
		v1.POST("/accounts/:address/fund", middleware.APIKeyAuth(authCfg), handler.Fund)
	}
}
