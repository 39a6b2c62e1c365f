package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/api/middleware"
	"github.com/feral-file/ff-observations/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-observations/internal/api/shared/errors"
	"github.com/feral-file/ff-observations/internal/fold"
	"github.com/feral-file/ff-observations/internal/ledger"
	"github.com/feral-file/ff-observations/internal/logger"
)

// Notifier is told about every committed call
type Notifier interface {
	Notify()
}

// LedgerHandler defines the interface for the ledger node handlers
type LedgerHandler interface {
	// Observe records an observation as the authenticated caller; x and y make it located
	// POST /api/v1/observations
	Observe(c *gin.Context)

	// ClaimTips pays a recipient's escrowed tips to the authenticated caller
	// POST /api/v1/tips/:recipient/claim
	ClaimTips(c *gin.Context)

	// GetArtifact retrieves the ledger aggregate of an artifact
	// GET /api/v1/artifacts/:collection/:token_id
	GetArtifact(c *gin.Context)

	// GetArtifactObservations folds the artifact's log into its visible live entries
	// GET /api/v1/artifacts/:collection/:token_id/observations
	GetArtifactObservations(c *gin.Context)

	// GetTipBalance retrieves the escrow state of a recipient
	// GET /api/v1/tips/:recipient
	GetTipBalance(c *gin.Context)

	// Fund credits native value to a devnet account (API key only)
	// POST /api/v1/accounts/:address/fund
	Fund(c *gin.Context)

	// GetBalance retrieves the native balance of an account
	// GET /api/v1/accounts/:address/balance
	GetBalance(c *gin.Context)

	// HealthCheck returns the health status and head block of the node
	// GET /health
	HealthCheck(c *gin.Context)
}

type ledgerHandler struct {
	ledger   ledger.Ledger
	notifier Notifier
	clock    adapter.Clock
}

// NewLedgerHandler creates the ledger node handlers; notifier may be nil
func NewLedgerHandler(l ledger.Ledger, notifier Notifier, clock adapter.Clock) LedgerHandler {
	return &ledgerHandler{
		ledger:   l,
		notifier: notifier,
		clock:    clock,
	}
}

func (h *ledgerHandler) committed(c *gin.Context, receipt *ledger.Receipt) {
	if h.notifier != nil {
		h.notifier.Notify()
	}

	logger.InfoCtx(c.Request.Context(), "Ledger call committed",
		zap.String("txHash", receipt.TxHash.Hex()),
		zap.Uint64("block", receipt.BlockNumber),
	)

	c.JSON(http.StatusOK, dto.MapReceiptToDTO(receipt))
}

func (h *ledgerHandler) Observe(c *gin.Context) {
	caller, err := middleware.CallerFromContext(c)
	if err != nil {
		respondUnauthorized(c, apierrors.NewCallerIdentityRequiredError(err.Error()))
		return
	}

	var req dto.ObserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	// Validate request body
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request body")
		return
	}

	in, value := req.ToInput()
	call := ledger.Call{Caller: caller, Value: value}

	var receipt *ledger.Receipt
	if req.Located() {
		receipt, err = h.ledger.ObserveAt(c.Request.Context(), call, in, *req.X, *req.Y)
	} else {
		receipt, err = h.ledger.Observe(c.Request.Context(), call, in)
	}
	if err != nil {
		respondError(c, apierrors.FromLedgerError(err), "Failed to record observation")
		return
	}

	h.committed(c, receipt)
}

func (h *ledgerHandler) ClaimTips(c *gin.Context) {
	caller, err := middleware.CallerFromContext(c)
	if err != nil {
		respondUnauthorized(c, apierrors.NewCallerIdentityRequiredError(err.Error()))
		return
	}

	recipient, err := ParseAddressParam(c, "recipient")
	if err != nil {
		respondBadRequest(c, "Invalid recipient", err.Error())
		return
	}

	receipt, err := h.ledger.ClaimTips(c.Request.Context(), caller, recipient)
	if err != nil {
		respondError(c, apierrors.FromLedgerError(err), "Failed to claim tips")
		return
	}

	h.committed(c, receipt)
}

func (h *ledgerHandler) GetArtifact(c *gin.Context) {
	path, err := ParseArtifactPath(c)
	if err != nil {
		respondBadRequest(c, "Invalid artifact", err.Error())
		return
	}

	key := path.Key()
	c.JSON(http.StatusOK, dto.MapLedgerArtifactToDTO(key, h.ledger.GetArtifact(key.Collection, key.TokenID)))
}

func (h *ledgerHandler) GetArtifactObservations(c *gin.Context) {
	path, err := ParseArtifactPath(c)
	if err != nil {
		respondBadRequest(c, "Invalid artifact", err.Error())
		return
	}

	key := path.Key()
	live := fold.Visible(fold.Apply(h.ledger.Observations(key.Collection, key.TokenID)))

	resp := dto.ObservationListResponse{Observations: make([]dto.ObservationResponse, 0, len(live))}
	for i := range live {
		resp.Observations = append(resp.Observations, dto.MapLiveToDTO(&live[i]))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ledgerHandler) GetTipBalance(c *gin.Context) {
	recipient, err := ParseAddressParam(c, "recipient")
	if err != nil {
		respondBadRequest(c, "Invalid recipient", err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.MapTipBalanceToDTO(recipient, h.ledger.GetTipBalance(recipient), h.clock.Now()))
}

func (h *ledgerHandler) Fund(c *gin.Context) {
	account, err := ParseAddressParam(c, "address")
	if err != nil {
		respondBadRequest(c, "Invalid account", err.Error())
		return
	}

	var req dto.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	// Validate request body
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request body")
		return
	}

	amount, _ := dto.ParseAmount(req.Amount)
	if err := h.ledger.Fund(c.Request.Context(), account, amount); err != nil {
		respondError(c, apierrors.FromLedgerError(err), "Failed to fund account")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		Account: account.Hex(),
		Balance: h.ledger.BalanceOf(account).String(),
	})
}

func (h *ledgerHandler) GetBalance(c *gin.Context) {
	account, err := ParseAddressParam(c, "address")
	if err != nil {
		respondBadRequest(c, "Invalid account", err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		Account: account.Hex(),
		Balance: h.ledger.BalanceOf(account).String(),
	})
}

func (h *ledgerHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"head":   h.ledger.Head(),
	})
}
