package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"billing/internal/clock"
	apperrors "billing/internal/errors"
	"billing/internal/logger"
	"billing/internal/models"
	"billing/internal/money"
)

// paymentService moves funds between wallets, converting at today's rate when
// the wallets hold different currencies.
type paymentService struct {
	db            *gorm.DB
	ledger        LedgerServicer
	rates         ExchangeRateServicer
	walletService WalletServicer
	clock         clock.Clock
}

// NewPaymentService creates a new PaymentServicer.
func NewPaymentService(db *gorm.DB, ledger LedgerServicer, rates ExchangeRateServicer, walletService WalletServicer, clk clock.Clock) PaymentServicer {
	return &paymentService{
		db:            db,
		ledger:        ledger,
		rates:         rates,
		walletService: walletService,
		clock:         clk,
	}
}

// SendPayment debits req.Amount from the source wallet and credits the
// destination with the converted amount. It returns the transaction and the
// source wallet with its new balance.
func (s *paymentService) SendPayment(ctx context.Context, req TransferRequest) (*models.Transaction, *models.Wallet, error) {
	if err := money.ValidateAmount(req.Amount); err != nil {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, err.Error())
	}
	if req.SourceWalletID == req.DestinationWalletID {
		return nil, nil, apperrors.ErrSameWalletTransfer
	}

	source, err := s.walletService.GetWalletByID(ctx, req.SourceWalletID)
	if err != nil {
		return nil, nil, err
	}
	destination, err := s.walletService.GetWalletByID(ctx, req.DestinationWalletID)
	if err != nil {
		return nil, nil, err
	}

	// Rates are read before the write transaction opens; they never change
	// once stored.
	destAmount := req.Amount
	if source.Currency != destination.Currency {
		rate, err := s.conversionRate(ctx, source.Currency, destination.Currency)
		if err != nil {
			return nil, nil, err
		}
		destAmount = money.Convert(req.Amount, rate)
		if !destAmount.IsPositive() {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidAmount,
				fmt.Sprintf("%s %s is too small to convert to %s", req.Amount.StringFixed(money.Places), source.Currency, destination.Currency))
		}
	}

	var txn *models.Transaction
	var updated models.Wallet
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockWallets(tx, source.ID, destination.ID)
		if err != nil {
			return err
		}
		if locked[source.ID].Balance.LessThan(req.Amount) {
			return apperrors.ErrInsufficientFunds
		}

		txn, err = s.ledger.CreateTransactionTx(tx, CreateTransactionRequest{
			Description: req.Description,
			Entries: []EntryRequest{
				{WalletID: source.ID, Amount: req.Amount.Neg()},
				{WalletID: destination.ID, Amount: destAmount},
			},
		})
		if err != nil {
			return err
		}

		if err := tx.First(&updated, "id = ?", source.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Get().Infow("payment sent",
		"transaction_id", txn.ID,
		"source_wallet", source.ID,
		"destination_wallet", destination.ID,
		"amount", req.Amount.StringFixed(money.Places),
		"source_currency", source.Currency,
		"destination_amount", destAmount.StringFixed(money.Places),
		"destination_currency", destination.Currency,
	)
	return txn, &updated, nil
}

// conversionRate derives the from→to rate from today's Base rates, fetching
// the day's rates once if either is missing.
func (s *paymentService) conversionRate(ctx context.Context, from, to money.Currency) (decimal.Decimal, error) {
	today := clock.Today(s.clock)

	fromRate, toRate, err := s.baseRates(ctx, from, to, today)
	if errors.Is(err, apperrors.ErrNoExchangeRate) {
		if err := s.rates.EnsureRatesForDate(ctx, today); err != nil {
			return decimal.Zero, err
		}
		fromRate, toRate, err = s.baseRates(ctx, from, to, today)
	}
	if err != nil {
		return decimal.Zero, err
	}

	rate, err := money.CrossRate(toRate, fromRate)
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrNoExchangeRate, err.Error())
	}
	return rate, nil
}

func (s *paymentService) baseRates(ctx context.Context, from, to money.Currency, day time.Time) (decimal.Decimal, decimal.Decimal, error) {
	fromRate, err := s.rates.BaseRate(ctx, from, day)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	toRate, err := s.rates.BaseRate(ctx, to, day)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return fromRate, toRate, nil
}
