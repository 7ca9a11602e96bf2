package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"billing/internal/logger"
	"billing/internal/models"
)

// Audit actions recorded by the HTTP layer.
const (
	AuditActionTopUp           = "TOP_UP"
	AuditActionSendPayment     = "SEND_PAYMENT"
	AuditActionReconcileWallet = "RECONCILE_WALLET"
)

// AuditEvent describes one ledger mutation or administrative action.
type AuditEvent struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	Changes      map[string]interface{}
}

// auditService writes audit events to the audit_logs table.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records ev. The ledger change it describes is already committed, so
// failures are logged and swallowed.
func (s *auditService) Log(ctx context.Context, ev AuditEvent) {
	entry := &models.AuditLog{
		UserID:       ev.UserID,
		Action:       ev.Action,
		ResourceType: ev.ResourceType,
		ResourceID:   ev.ResourceID,
		IPAddress:    ev.IPAddress,
	}
	if ev.Changes != nil {
		data, err := json.Marshal(ev.Changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit changes", "error", err, "action", ev.Action)
			data = []byte("{}")
		}
		entry.Changes = string(data)
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", ev.UserID,
			"action", ev.Action,
			"resource_type", ev.ResourceType,
			"resource_id", ev.ResourceID,
		)
	}
}
