package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"billing/internal/cache"
	"billing/internal/clock"
	apperrors "billing/internal/errors"
	"billing/internal/logger"
	"billing/internal/models"
	"billing/internal/money"
)

const rateDateLayout = "2006-01-02"

// exchangeRateService stores daily Base→X rates and derives every other pair.
type exchangeRateService struct {
	db    *gorm.DB
	feed  RateFetcher
	cache cache.RateCache
	clock clock.Clock
	group singleflight.Group
}

// NewExchangeRateService creates a new ExchangeRateServicer. A nil rc disables caching.
func NewExchangeRateService(db *gorm.DB, feed RateFetcher, rc cache.RateCache, clk clock.Clock) ExchangeRateServicer {
	if rc == nil {
		rc = cache.Noop{}
	}
	return &exchangeRateService{
		db:    db,
		feed:  feed,
		cache: rc,
		clock: clk,
	}
}

// FindRates returns the stored rates for date ordered by target currency,
// optionally limited to one target. A zero date means today.
func (s *exchangeRateService) FindRates(ctx context.Context, to *money.Currency, date time.Time) ([]models.ExchangeRate, error) {
	if to != nil && !to.IsSupported() {
		return nil, unsupportedCurrency(string(*to))
	}

	rates, err := s.ratesForDate(ctx, s.day(date))
	if err != nil {
		return nil, err
	}
	if to == nil {
		return rates, nil
	}

	filtered := make([]models.ExchangeRate, 0, 1)
	for _, r := range rates {
		if r.ToCurrency == *to {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// EnsureRatesForDate fetches and stores the day's rates unless some are
// already stored. Concurrent calls for the same day share one fetch, which
// runs detached from any single caller's cancellation and is bounded by the
// feed timeout. A caller whose ctx ends stops waiting without aborting it.
func (s *exchangeRateService) EnsureRatesForDate(ctx context.Context, date time.Time) error {
	day := s.day(date)
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(day.Format(rateDateLayout), func() (interface{}, error) {
		return nil, s.ensure(shared, day)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return apperrors.Wrap(apperrors.ErrExternalFetch, ctx.Err())
	}
}

func (s *exchangeRateService) ensure(ctx context.Context, day time.Time) error {
	existing, err := s.ratesForDate(ctx, day)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	resp, err := s.feed.FetchRates(ctx, day, money.Base, money.Supported())
	if err != nil {
		logger.Get().Errorw("exchange rate fetch failed", "date", day.Format(rateDateLayout), "error", err)
		return apperrors.Wrap(apperrors.ErrExternalFetch, err)
	}

	rows, err := ratesFromFeed(day, resp.Rates)
	if err != nil {
		logger.Get().Errorw("exchange rate feed returned unusable data", "date", day.Format(rateDateLayout), "error", err)
		return apperrors.Wrap(apperrors.ErrExternalFetch, err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "from_currency"}, {Name: "to_currency"}},
			DoNothing: true,
		}).Create(&rows).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.cache.Invalidate(ctx, day); err != nil {
		logger.Get().Warnw("failed to invalidate cached rates", "date", day.Format(rateDateLayout), "error", err)
	}

	logger.Get().Infow("exchange rates stored", "date", day.Format(rateDateLayout), "count", len(rows))
	return nil
}

// ratesFromFeed keeps supported currencies, rounds each rate to two places
// and rejects rates that are not positive after rounding.
func ratesFromFeed(day time.Time, feed map[string]float64) ([]models.ExchangeRate, error) {
	rows := make([]models.ExchangeRate, 0, len(feed))
	for code, value := range feed {
		cur := money.Currency(strings.ToUpper(code))
		if !cur.IsSupported() {
			continue
		}
		rate := money.Round(decimal.NewFromFloat(value))
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s is not positive: %v", cur, value)
		}
		rows = append(rows, models.ExchangeRate{
			Date:         day,
			FromCurrency: money.Base,
			ToCurrency:   cur,
			Rate:         rate,
		})
	}
	if len(rows) == 0 {
		return nil, errors.New("no supported currencies in feed response")
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ToCurrency < rows[j].ToCurrency })
	return rows, nil
}

// BaseRate returns the stored Base→currency rate for date. Base→Base is 1
// even when the feed did not publish it.
func (s *exchangeRateService) BaseRate(ctx context.Context, currency money.Currency, date time.Time) (decimal.Decimal, error) {
	if !currency.IsSupported() {
		return decimal.Zero, unsupportedCurrency(string(currency))
	}

	day := s.day(date)
	rates, err := s.FindRates(ctx, &currency, day)
	if err != nil {
		return decimal.Zero, err
	}
	if len(rates) > 0 {
		return rates[0].Rate, nil
	}
	if currency == money.Base {
		return decimal.NewFromInt(1), nil
	}
	return decimal.Zero, apperrors.WithMessage(apperrors.ErrNoExchangeRate,
		fmt.Sprintf("No %s exchange rate for %s", currency, day.Format(rateDateLayout)))
}

// ListRates ensures the day's rates and derives the rate from q.From to every
// other supported currency. The self rate is never listed.
func (s *exchangeRateService) ListRates(ctx context.Context, q RateQuery) ([]RateView, error) {
	if !q.From.IsSupported() {
		return nil, unsupportedCurrency(string(q.From))
	}
	if q.To != nil && !q.To.IsSupported() {
		return nil, unsupportedCurrency(string(*q.To))
	}

	day := s.day(q.Date)
	if err := s.EnsureRatesForDate(ctx, day); err != nil {
		return nil, err
	}

	stored, err := s.ratesForDate(ctx, day)
	if err != nil {
		return nil, err
	}
	byCurrency := make(map[money.Currency]decimal.Decimal, len(stored)+1)
	byCurrency[money.Base] = decimal.NewFromInt(1)
	for _, r := range stored {
		byCurrency[r.ToCurrency] = r.Rate
	}

	base, ok := byCurrency[q.From]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrNoExchangeRate,
			fmt.Sprintf("No %s exchange rate for %s", q.From, day.Format(rateDateLayout)))
	}

	views := make([]RateView, 0, len(byCurrency))
	for _, cur := range money.Supported() {
		if cur == q.From || (q.To != nil && cur != *q.To) {
			continue
		}
		target, ok := byCurrency[cur]
		if !ok {
			continue
		}
		rate, err := money.CrossRate(target, base)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		views = append(views, RateView{
			FromCurrency: q.From,
			ToCurrency:   cur,
			Rate:         rate,
			Date:         day.Format(rateDateLayout),
		})
	}

	sort.Slice(views, func(i, j int) bool { return views[i].ToCurrency < views[j].ToCurrency })
	return views, nil
}

// ratesForDate reads through the cache. Cache failures are logged and the
// database answers instead. Empty days are never cached.
func (s *exchangeRateService) ratesForDate(ctx context.Context, day time.Time) ([]models.ExchangeRate, error) {
	cached, ok, err := s.cache.GetRates(ctx, day)
	if err != nil {
		logger.Get().Warnw("rate cache read failed", "date", day.Format(rateDateLayout), "error", err)
	}
	if ok {
		return cached, nil
	}

	var rates []models.ExchangeRate
	if err := s.db.WithContext(ctx).
		Where("date = ? AND from_currency = ?", day, money.Base).
		Order("to_currency").
		Find(&rates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(rates) > 0 {
		if err := s.cache.SetRates(ctx, day, rates); err != nil {
			logger.Get().Warnw("rate cache write failed", "date", day.Format(rateDateLayout), "error", err)
		}
	}
	return rates, nil
}

// day normalises date to midnight UTC; zero means today.
func (s *exchangeRateService) day(date time.Time) time.Time {
	if date.IsZero() {
		return clock.Today(s.clock)
	}
	return clock.Date(date)
}

func unsupportedCurrency(code string) *apperrors.AppError {
	return apperrors.WithMessage(apperrors.ErrInvalidCurrency,
		fmt.Sprintf("Currency %q must be one of %s", code, strings.Join(money.SupportedCodes(), ", ")))
}
