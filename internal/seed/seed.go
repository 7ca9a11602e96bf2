// Package seed fills a ledger with demo traffic between two wallets.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"billing/internal/logger"
	"billing/internal/models"
	"billing/internal/services"
)

// DefaultPayments is the number of payments Run sends when asked for zero.
const DefaultPayments = 100

// Result counts what Run wrote.
type Result struct {
	TopUps   int
	Payments int
}

// Transactions is the total number of transactions written.
func (r Result) Transactions() int { return r.TopUps + r.Payments }

// Run tops up first with 1000 and second with 2000, then sends n payments
// alternating direction, starting from first. Payment i moves i+1 units.
func Run(ctx context.Context, ledger services.LedgerServicer, payments services.PaymentServicer, first, second *models.Wallet, n int) (Result, error) {
	var res Result
	if n <= 0 {
		n = DefaultPayments
	}

	for _, topUp := range []struct {
		wallet *models.Wallet
		amount int64
	}{{first, 1000}, {second, 2000}} {
		if _, err := ledger.TopUp(ctx, topUp.wallet.ID, decimal.NewFromInt(topUp.amount)); err != nil {
			return res, fmt.Errorf("top up %s: %w", topUp.wallet.ID, err)
		}
		res.TopUps++
	}

	for i := 0; i < n; i++ {
		source, destination := first, second
		if i%2 == 1 {
			source, destination = second, first
		}

		_, _, err := payments.SendPayment(ctx, services.TransferRequest{
			SourceWalletID:      source.ID,
			DestinationWalletID: destination.ID,
			Amount:              decimal.NewFromInt(int64(i + 1)),
			Description:         fmt.Sprintf("Payment #%d", i),
		})
		if err != nil {
			return res, fmt.Errorf("payment #%d: %w", i, err)
		}
		res.Payments++
	}

	logger.Get().Infow("seeded ledger", "top_ups", res.TopUps, "payments", res.Payments)
	return res, nil
}
