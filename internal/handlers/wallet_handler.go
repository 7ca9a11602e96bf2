package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"billing/internal/services"
)

// WalletHandler serves the caller's wallet and top-ups.
type WalletHandler struct {
	walletService services.WalletServicer
	ledger        services.LedgerServicer
	auditService  services.AuditServicer
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService services.WalletServicer, ledger services.LedgerServicer, auditService services.AuditServicer) *WalletHandler {
	return &WalletHandler{walletService: walletService, ledger: ledger, auditService: auditService}
}

// TopUpRequest represents the request payload for a top-up.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00" binding:"money"`
}

// GetWallet returns the caller's wallet
// @Summary     Get wallet
// @Description Get the authenticated user's wallet and balance
// @Tags        wallet
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Wallet "Wallet"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Router      /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err := h.walletService.GetUserWallet(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// TopUp credits the caller's wallet
// @Summary     Top up wallet
// @Description Credit the authenticated user's wallet with funds from outside the ledger
// @Tags        wallet
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TopUpRequest true "Top-up amount"
// @Success     201 {object} TransactionResultResponse "Top-up recorded"
// @Failure     400 {object} ErrorResponse "Invalid amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallet/top-up [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	ctx := c.Request.Context()
	wallet, err := h.walletService.GetUserWallet(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, err := h.ledger.TopUp(ctx, wallet.ID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err = h.walletService.GetWalletByID(ctx, wallet.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, services.AuditEvent{
		UserID:       userID,
		Action:       services.AuditActionTopUp,
		ResourceType: "transaction",
		ResourceID:   txn.ID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]interface{}{"wallet": wallet.ID, "amount": req.Amount.StringFixed(2)},
	})

	c.JSON(http.StatusCreated, TransactionResultResponse{Balance: wallet.Balance, Transaction: txn})
}
