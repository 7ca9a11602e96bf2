package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billing/internal/services"
)

// AdminHandler exposes staff-only ledger maintenance.
type AdminHandler struct {
	ledger       services.LedgerServicer
	auditService services.AuditServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ledger services.LedgerServicer, auditService services.AuditServicer) *AdminHandler {
	return &AdminHandler{ledger: ledger, auditService: auditService}
}

// ReconcileWallet recomputes a wallet balance from its entries
// @Summary     Reconcile a wallet
// @Description Set the wallet balance to the sum of its entries. Staff only.
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Success     200 {object} models.Wallet "Reconciled wallet"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     400 {object} ErrorResponse "Invalid wallet id"
// @Failure     403 {object} ErrorResponse "Staff only"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Router      /admin/wallets/{id}/reconcile [post]
func (h *AdminHandler) ReconcileWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	walletID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	wallet, err := h.ledger.ReconcileWallet(ctx, walletID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, services.AuditEvent{
		UserID:       userID,
		Action:       services.AuditActionReconcileWallet,
		ResourceType: "wallet",
		ResourceID:   wallet.ID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]interface{}{"balance": wallet.Balance.StringFixed(2)},
	})

	c.JSON(http.StatusOK, wallet)
}
