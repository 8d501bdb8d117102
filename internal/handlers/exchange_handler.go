package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quincena/internal/exchange"
	"quincena/internal/logger"
	"quincena/internal/validator"
)

// RateFetcher looks up one currency pair upstream.
type RateFetcher interface {
	Configured() bool
	Pair(ctx context.Context, from, to string) (*exchange.Rate, error)
}

// UpstreamObserver records the outcome of each upstream call.
type UpstreamObserver interface {
	ObserveUpstream(outcome string)
}

// ExchangeHandler proxies currency conversion rates. Unlike the rest of the
// API its errors use a flat {"error": "..."} body.
type ExchangeHandler struct {
	rates    RateFetcher
	observer UpstreamObserver
}

// NewExchangeHandler creates a new ExchangeHandler. observer may be nil.
func NewExchangeHandler(rates RateFetcher, observer UpstreamObserver) *ExchangeHandler {
	return &ExchangeHandler{rates: rates, observer: observer}
}

// ExchangeErrorResponse is the flat error body of the exchange-rate endpoint.
type ExchangeErrorResponse struct {
	Error string `json:"error"`
}

func (h *ExchangeHandler) observe(outcome string) {
	if h.observer != nil {
		h.observer.ObserveUpstream(outcome)
	}
}

// GetRate returns the conversion rate between two currencies.
// @Summary     Get exchange rate
// @Description Convert one unit of `from` into `to` using ExchangeRate-API. One upstream call per request, no cache.
// @Tags        exchange
// @Produce     json
// @Param       from query string true "Source currency (ISO 4217)"
// @Param       to   query string true "Target currency (ISO 4217)"
// @Success     200 {object} exchange.Rate "Conversion rate"
// @Failure     400 {object} ExchangeErrorResponse "Missing or invalid currency, or upstream error"
// @Failure     405 {object} ExchangeErrorResponse "Method not allowed"
// @Failure     500 {object} ExchangeErrorResponse "Not configured or upstream failure"
// @Router      /exchange-rate [get]
func (h *ExchangeHandler) GetRate(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.Header("Allow", http.MethodGet)
		c.JSON(http.StatusMethodNotAllowed, ExchangeErrorResponse{Error: "Method not allowed"})
		return
	}

	from := strings.ToUpper(strings.TrimSpace(c.Query("from")))
	to := strings.ToUpper(strings.TrimSpace(c.Query("to")))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, ExchangeErrorResponse{Error: "Missing from or to currency"})
		return
	}
	if !validator.IsISO4217(from) || !validator.IsISO4217(to) {
		c.JSON(http.StatusBadRequest, ExchangeErrorResponse{Error: "Invalid currency code"})
		return
	}

	if !h.rates.Configured() {
		logger.Get().Errorw("exchange rate API key not configured")
		c.JSON(http.StatusInternalServerError, ExchangeErrorResponse{Error: "Exchange rate API not configured"})
		return
	}

	rate, err := h.rates.Pair(c.Request.Context(), from, to)
	if err != nil {
		var upstream *exchange.UpstreamError
		if errors.As(err, &upstream) {
			h.observe("upstream_error")
			c.JSON(http.StatusBadRequest, ExchangeErrorResponse{Error: upstream.Error()})
			return
		}
		h.observe("failure")
		logger.Get().Errorw("exchange rate request failed",
			"from", from,
			"to", to,
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, ExchangeErrorResponse{Error: "Failed to fetch exchange rate"})
		return
	}

	h.observe("success")
	c.JSON(http.StatusOK, rate)
}
