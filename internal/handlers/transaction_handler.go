package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"billing/internal/models"
	"billing/internal/pagination"
	"billing/internal/services"
)

// TransactionHandler handles payments and transaction history for the caller's wallet.
type TransactionHandler struct {
	walletService  services.WalletServicer
	ledger         services.LedgerServicer
	paymentService services.PaymentServicer
	auditService   services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(walletService services.WalletServicer, ledger services.LedgerServicer, paymentService services.PaymentServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{
		walletService:  walletService,
		ledger:         ledger,
		paymentService: paymentService,
		auditService:   auditService,
	}
}

// SendPaymentRequest represents the request payload for a payment.
type SendPaymentRequest struct {
	DestinationWallet string          `json:"destination_wallet" binding:"required"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"string" example:"25.50" binding:"money"`
	Description       string          `json:"description" binding:"max=500"`
}

// TransactionResultResponse is returned by operations that move funds: the
// caller's new balance and the committed transaction.
type TransactionResultResponse struct {
	Balance     decimal.Decimal     `json:"balance" swaggertype:"string"`
	Transaction *models.Transaction `json:"transaction"`
}

// SendPayment handles a payment from the caller's wallet
// @Summary     Send a payment
// @Description Move funds to another wallet. Amount is in the caller's currency; the destination is credited at today's rate.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SendPaymentRequest true "Payment details"
// @Success     201 {object} TransactionResultResponse "Payment sent"
// @Failure     400 {object} ErrorResponse "Invalid input, insufficient funds or no exchange rate"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     502 {object} ErrorResponse "Exchange rate feed unavailable"
// @Router      /transactions [post]
func (h *TransactionHandler) SendPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SendPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	destinationID, err := parseUUID(req.DestinationWallet, "destination_wallet")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	source, err := h.walletService.GetUserWallet(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, wallet, err := h.paymentService.SendPayment(ctx, services.TransferRequest{
		SourceWalletID:      source.ID,
		DestinationWalletID: destinationID,
		Amount:              req.Amount,
		Description:         req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, services.AuditEvent{
		UserID:       userID,
		Action:       services.AuditActionSendPayment,
		ResourceType: "transaction",
		ResourceID:   txn.ID,
		IPAddress:    c.ClientIP(),
		Changes: map[string]interface{}{
			"source_wallet":      source.ID,
			"destination_wallet": destinationID,
			"amount":             req.Amount.StringFixed(2),
		},
	})

	c.JSON(http.StatusCreated, TransactionResultResponse{Balance: wallet.Balance, Transaction: txn})
}

// ListTransactions lists the caller's transactions
// @Summary     List transactions
// @Description Get a paginated list of transactions touching the caller's wallet, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	ctx := c.Request.Context()
	wallet, err := h.walletService.GetUserWallet(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledger.ListWalletTransactions(ctx, wallet.ID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction returns one of the caller's transactions
// @Summary     Get a transaction
// @Description Get a transaction with its entries. Only transactions touching the caller's wallet are visible.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid transaction id"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	wallet, err := h.walletService.GetUserWallet(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, err := h.ledger.GetTransaction(ctx, wallet.ID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}
