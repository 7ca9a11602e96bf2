package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billing/internal/money"
	"billing/internal/services"
)

// ExchangeRateHandler serves derived exchange rates.
type ExchangeRateHandler struct {
	rates services.ExchangeRateServicer
}

// NewExchangeRateHandler creates a new ExchangeRateHandler.
func NewExchangeRateHandler(rates services.ExchangeRateServicer) *ExchangeRateHandler {
	return &ExchangeRateHandler{rates: rates}
}

// RateListQuery holds the rate listing query parameters.
type RateListQuery struct {
	FromCurrency string `form:"from_currency" binding:"omitempty,currency"`
	ToCurrency   string `form:"to_currency" binding:"omitempty,currency"`
	Date         string `form:"date"`
}

// RateListResponse wraps the listed rates.
type RateListResponse struct {
	Results []services.RateView `json:"results"`
}

// ListRates lists rates from one currency to the others
// @Summary     List exchange rates
// @Description Rates from from_currency (default USD) to every other supported currency for a day. The day's rates are fetched when missing.
// @Tags        exchange-rates
// @Produce     json
// @Security    BearerAuth
// @Param       from_currency query string false "Source currency (USD, EUR, CAD, CNY)"
// @Param       to_currency   query string false "Only this target currency"
// @Param       date          query string false "Day (YYYY-MM-DD), default today"
// @Success     200 {object} RateListResponse "Rates"
// @Failure     400 {object} ErrorResponse "Invalid currency or date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Exchange rate feed unavailable"
// @Router      /exchange-rates [get]
func (h *ExchangeRateHandler) ListRates(c *gin.Context) {
	var query RateListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	q := services.RateQuery{From: money.Base}
	from, err := parseOptionalCurrency(query.FromCurrency)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if from != nil {
		q.From = *from
	}
	if q.To, err = parseOptionalCurrency(query.ToCurrency); err != nil {
		respondWithError(c, err)
		return
	}

	if query.Date != "" {
		date, err := parseFlexibleTime(query.Date)
		if err != nil {
			respondWithError(c, invalidInput(err))
			return
		}
		q.Date = date
	}

	views, err := h.rates.ListRates(c.Request.Context(), q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, RateListResponse{Results: views})
}
