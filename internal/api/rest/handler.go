package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-observations/internal/api/shared/executor"
)

// Handler defines the interface for the query API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// GetArtifact retrieves the aggregate of an artifact
	// GET /api/v1/artifacts/:collection/:token_id
	GetArtifact(c *gin.Context)

	// GetArtifactObservations retrieves the live observations of an artifact, oldest first
	// GET /api/v1/artifacts/:collection/:token_id/observations
	GetArtifactObservations(c *gin.Context)

	// GetRecentObservations retrieves the latest live observations across all artifacts
	// GET /api/v1/observations/recent?limit=<limit>
	GetRecentObservations(c *gin.Context)

	// GetCollectionArtifacts retrieves the artifacts of a collection, most observed first
	// GET /api/v1/collections/:collection/artifacts?limit=<limit>&offset=<offset>
	GetCollectionArtifacts(c *gin.Context)

	// GetCollectionObservations retrieves the latest live observations of a collection
	// GET /api/v1/collections/:collection/observations?limit=<limit>
	GetCollectionObservations(c *gin.Context)

	// GetObserverObservations retrieves an observer's live observations, newest first
	// GET /api/v1/observers/:observer/observations?limit=<limit>&after=<end_cursor>
	GetObserverObservations(c *gin.Context)

	// GetTip retrieves the escrow state of a tip recipient
	// GET /api/v1/tips/:recipient
	GetTip(c *gin.Context)

	// GetCollectionTip retrieves the tips addressed to a collection contract
	// GET /api/v1/collections/:collection/tips
	GetCollectionTip(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug    bool
	executor executor.Executor
}

// NewHandler creates a new query API handler using the shared executor
func NewHandler(debug bool, exec executor.Executor) Handler {
	return &handler{
		debug:    debug,
		executor: exec,
	}
}

func (h *handler) GetArtifact(c *gin.Context) {
	path, err := ParseArtifactPath(c)
	if err != nil {
		respondBadRequest(c, "Invalid artifact", err.Error())
		return
	}

	resp, err := h.executor.GetArtifact(c.Request.Context(), path.Collection.Hex(), path.TokenID)
	if err != nil {
		respondError(c, err, "Failed to get artifact")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetArtifactObservations(c *gin.Context) {
	path, err := ParseArtifactPath(c)
	if err != nil {
		respondBadRequest(c, "Invalid artifact", err.Error())
		return
	}

	resp, err := h.executor.GetArtifactObservations(c.Request.Context(), path.Collection.Hex(), path.TokenID)
	if err != nil {
		respondError(c, err, "Failed to get artifact observations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetRecentObservations(c *gin.Context) {
	queryParams, err := ParseListQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.GetRecentObservations(c.Request.Context(), queryParams.Limit)
	if err != nil {
		respondError(c, err, "Failed to get recent observations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetCollectionArtifacts(c *gin.Context) {
	collection, err := ParseAddressParam(c, "collection")
	if err != nil {
		respondBadRequest(c, "Invalid collection", err.Error())
		return
	}

	queryParams, err := ParseCollectionArtifactsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.GetCollectionArtifacts(c.Request.Context(), collection.Hex(), queryParams.Limit, queryParams.Offset)
	if err != nil {
		respondError(c, err, "Failed to get collection artifacts")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetCollectionObservations(c *gin.Context) {
	collection, err := ParseAddressParam(c, "collection")
	if err != nil {
		respondBadRequest(c, "Invalid collection", err.Error())
		return
	}

	queryParams, err := ParseListQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.GetCollectionObservations(c.Request.Context(), collection.Hex(), queryParams.Limit)
	if err != nil {
		respondError(c, err, "Failed to get collection observations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetObserverObservations(c *gin.Context) {
	observer, err := ParseAddressParam(c, "observer")
	if err != nil {
		respondBadRequest(c, "Invalid observer", err.Error())
		return
	}

	queryParams, err := ParseObserverObservationsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.GetObserverObservations(c.Request.Context(), observer.Hex(), queryParams.Limit, queryParams.After)
	if err != nil {
		respondError(c, err, "Failed to get observer observations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetTip(c *gin.Context) {
	recipient, err := ParseAddressParam(c, "recipient")
	if err != nil {
		respondBadRequest(c, "Invalid recipient", err.Error())
		return
	}

	resp, err := h.executor.GetTip(c.Request.Context(), recipient.Hex())
	if err != nil {
		respondError(c, err, "Failed to get tip")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetCollectionTip(c *gin.Context) {
	collection, err := ParseAddressParam(c, "collection")
	if err != nil {
		respondBadRequest(c, "Invalid collection", err.Error())
		return
	}

	resp, err := h.executor.GetCollectionTip(c.Request.Context(), collection.Hex())
	if err != nil {
		respondError(c, err, "Failed to get collection tip")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
