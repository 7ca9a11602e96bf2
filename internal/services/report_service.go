package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "billing/internal/errors"
	"billing/internal/report"
)

// reportService builds read-only activity reports from the ledger.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GenerateReport flattens the entries of every wallet owned by
// filter.Username, newest transaction first. An unknown username yields an
// empty report.
func (s *reportService) GenerateReport(ctx context.Context, filter ReportFilter) ([]report.Row, error) {
	username := strings.TrimSpace(filter.Username)
	if username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username is required")
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date_from must not be after date_to")
	}

	q := s.db.WithContext(ctx).
		Table("transaction_entries AS e").
		Select("e.id AS id, u.username AS username, t.created AS created, w.currency AS currency, e.amount AS amount").
		Joins("JOIN transactions t ON t.id = e.transaction_id").
		Joins("JOIN wallets w ON w.id = e.wallet_id").
		Joins("JOIN users u ON u.id = w.user_id").
		Where("u.username = ?", username)

	if filter.DateFrom != nil {
		q = q.Where("t.created >= ?", filter.DateFrom.UTC())
	}
	if filter.DateTo != nil {
		q = q.Where("t.created <= ?", filter.DateTo.UTC())
	}

	rows := []report.Row{}
	if err := q.Order("t.created DESC, t.id DESC, e.id DESC").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}
