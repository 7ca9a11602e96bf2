package services

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"billing/internal/clock"
	apperrors "billing/internal/errors"
	"billing/internal/logger"
	"billing/internal/models"
	"billing/internal/money"
	"billing/internal/pagination"
)

// TopUpDescription is the description recorded on every top-up transaction.
const TopUpDescription = "Top up"

// maxEntries is the largest number of entries a transaction may carry.
const maxEntries = 2

// ledgerService writes balanced transactions and keeps cached wallet balances
// equal to the sum of their entries.
type ledgerService struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewLedgerService creates a new LedgerServicer. Transaction times come from
// clk, wrapped so they are strictly increasing.
func NewLedgerService(db *gorm.DB, clk clock.Clock) LedgerServicer {
	if _, ok := clk.(*clock.Monotonic); !ok {
		clk = clock.NewMonotonic(clk)
	}
	return &ledgerService{db: db, clock: clk}
}

// CreateEntry locks the wallet, inserts the entry and recomputes the wallet
// balance, all inside tx.
func (s *ledgerService) CreateEntry(tx *gorm.DB, txn *models.Transaction, walletID string, amount decimal.Decimal) (*models.TransactionEntry, error) {
	wallet, err := lockWallet(tx, walletID)
	if err != nil {
		return nil, err
	}

	entry := &models.TransactionEntry{
		TransactionID: txn.ID,
		WalletID:      wallet.ID,
		Amount:        amount,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := reconcileWalletTx(tx, wallet); err != nil {
		return nil, err
	}

	entry.Currency = wallet.Currency
	return entry, nil
}

// CreateTransaction validates req and writes the transaction and its entries
// atomically.
func (s *ledgerService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*models.Transaction, error) {
	if err := validateTransactionRequest(req); err != nil {
		return nil, err
	}

	var result *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.CreateTransactionTx(tx, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateTransactionTx writes the transaction with a given database connection,
// so callers can hold their own locks around it.
func (s *ledgerService) CreateTransactionTx(tx *gorm.DB, req CreateTransactionRequest) (*models.Transaction, error) {
	if err := validateTransactionRequest(req); err != nil {
		return nil, err
	}

	ids := make([]string, len(req.Entries))
	for i, e := range req.Entries {
		ids[i] = e.WalletID
	}
	if _, err := lockWallets(tx, ids...); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		Created:     s.clock.Now(),
		Description: req.Description,
		IsTopUp:     req.IsTopUp,
	}
	if err := tx.Omit(clause.Associations).Create(txn).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	txn.Entries = make([]models.TransactionEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entry, err := s.CreateEntry(tx, txn, e.WalletID, e.Amount)
		if err != nil {
			return nil, err
		}
		txn.Entries = append(txn.Entries, *entry)
	}

	return txn, nil
}

// TopUp credits a wallet with a single-entry transaction.
func (s *ledgerService) TopUp(ctx context.Context, walletID string, amount decimal.Decimal) (*models.Transaction, error) {
	if err := money.ValidateAmount(amount); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, err.Error())
	}

	txn, err := s.CreateTransaction(ctx, CreateTransactionRequest{
		Description: TopUpDescription,
		IsTopUp:     true,
		Entries:     []EntryRequest{{WalletID: walletID, Amount: amount.Abs()}},
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("wallet topped up", "wallet_id", walletID, "amount", amount.StringFixed(money.Places), "transaction_id", txn.ID)
	return txn, nil
}

// ReconcileWallet recomputes a wallet's balance from its entries under a row lock.
func (s *ledgerService) ReconcileWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	wallet, _, err := s.reconcile(ctx, walletID)
	return wallet, err
}

// ReconcileAll reconciles every wallet and returns how many had drifted.
func (s *ledgerService) ReconcileAll(ctx context.Context) (int, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Wallet{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	drifted := 0
	for _, id := range ids {
		_, changed, err := s.reconcile(ctx, id)
		if err != nil {
			return drifted, err
		}
		if changed {
			drifted++
		}
	}

	logger.Get().Infow("wallets reconciled", "wallets", len(ids), "drifted", drifted)
	return drifted, nil
}

func (s *ledgerService) reconcile(ctx context.Context, walletID string) (*models.Wallet, bool, error) {
	var wallet *models.Wallet
	var drifted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = lockWallet(tx, walletID)
		if err != nil {
			return err
		}
		previous := wallet.Balance
		drifted, err = reconcileWalletTx(tx, wallet)
		if err != nil {
			return err
		}
		if drifted {
			logger.Get().Warnw("wallet balance drifted from entries",
				"wallet_id", wallet.ID,
				"cached", previous.StringFixed(money.Places),
				"entries", wallet.Balance.StringFixed(money.Places),
			)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return wallet, drifted, nil
}

// GetTransaction returns a transaction that touches walletID.
func (s *ledgerService) GetTransaction(ctx context.Context, walletID, transactionID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.withEntries(s.db.WithContext(ctx)).
		Where("id = ? AND id IN (?)", transactionID, walletTransactionIDs(s.db, walletID)).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &txn, nil
}

// ListWalletTransactions lists the transactions touching walletID, newest first.
func (s *ledgerService) ListWalletTransactions(ctx context.Context, walletID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id IN (?)", walletTransactionIDs(s.db, walletID))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.withEntries(base).Scopes(pagination.Paginate(page)).
		Order("created DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *ledgerService) withEntries(q *gorm.DB) *gorm.DB {
	return q.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("transaction_entries.id")
	}).Preload("Entries.Wallet")
}

func walletTransactionIDs(db *gorm.DB, walletID string) *gorm.DB {
	return db.Model(&models.TransactionEntry{}).Select("transaction_id").Where("wallet_id = ?", walletID)
}

// validateTransactionRequest enforces the arity rules before anything is written.
func validateTransactionRequest(req CreateTransactionRequest) error {
	n := len(req.Entries)
	switch {
	case n == 0:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "A transaction needs at least one entry")
	case n > maxEntries:
		return apperrors.ErrTooManyEntries
	case req.IsTopUp && n != 1:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "A top-up has exactly one entry")
	case !req.IsTopUp && n != 2:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "A transfer has exactly two entries")
	}

	if n == 2 && req.Entries[0].WalletID == req.Entries[1].WalletID {
		return apperrors.ErrSameWalletTransfer
	}

	for _, e := range req.Entries {
		if e.WalletID == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Entry wallet is required")
		}
		if err := money.ValidateAmount(e.Amount.Abs()); err != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidAmount, err.Error())
		}
	}

	if req.IsTopUp && !req.Entries[0].Amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "A top-up must credit the wallet")
	}
	return nil
}

// lockWallet selects a wallet FOR UPDATE.
func lockWallet(tx *gorm.DB, walletID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, "id = ?", walletID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}

// lockWallets locks wallets in ascending id order, so two transfers between
// the same pair of wallets always acquire their locks in the same order.
func lockWallets(tx *gorm.DB, ids ...string) (map[string]*models.Wallet, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	locked := make(map[string]*models.Wallet, len(sorted))
	for _, id := range sorted {
		if _, ok := locked[id]; ok {
			continue
		}
		wallet, err := lockWallet(tx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = wallet
	}
	return locked, nil
}

// reconcileWalletTx sets wallet.balance to the sum of its entries and reports
// whether the cached value had to change.
func reconcileWalletTx(tx *gorm.DB, wallet *models.Wallet) (bool, error) {
	var sum decimal.Decimal
	row := tx.Model(&models.TransactionEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("wallet_id = ?", wallet.ID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance := money.Round(sum)
	if balance.Equal(wallet.Balance) {
		return false, nil
	}

	if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).Update("balance", balance).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	wallet.Balance = balance
	return true, nil
}
