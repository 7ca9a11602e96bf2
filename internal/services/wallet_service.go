package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "billing/internal/errors"
	"billing/internal/models"
)

// walletService handles wallet lookups.
type walletService struct {
	db *gorm.DB
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB) WalletServicer {
	return &walletService{db: db}
}

// GetWalletByID retrieves a wallet by id
func (s *walletService) GetWalletByID(ctx context.Context, id string) (*models.Wallet, error) {
	if id == "" {
		return nil, apperrors.ErrWalletNotFound
	}

	var wallet models.Wallet
	if err := s.db.WithContext(ctx).First(&wallet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}

// GetUserWallet retrieves the wallet owned by userID
func (s *walletService) GetUserWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.WithContext(ctx).First(&wallet, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}
