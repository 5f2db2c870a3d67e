// Package clients contains HTTP clients for external services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cryptofolio/cryptofolio/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 15 * time.Second

// TrackerClient wraps the portfolio tracker service endpoints.
//
// Every read request carries a monotonically increasing cache-busting query
// parameter plus no-cache headers, so no intermediary (browser, proxy, CDN)
// ever serves a stale payload. The write endpoint is left untouched by the
// cache-busting treatment.
type TrackerClient struct {
	baseURL    string
	httpClient *http.Client
	lastToken  atomic.Int64
}

// NewTrackerClient creates a client for the tracker service at baseURL.
// A non-positive timeout falls back to the default.
func NewTrackerClient(baseURL string, timeout time.Duration) *TrackerClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &TrackerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Portfolio fetches the aggregated portfolio valuation.
func (c *TrackerClient) Portfolio(ctx context.Context) (domain.PortfolioSnapshot, error) {
	var out domain.PortfolioSnapshot
	err := c.getJSON(ctx, "/portfolio", nil, &out)
	return out, err
}

// LiveProfitLoss fetches real-time profit figures.
func (c *TrackerClient) LiveProfitLoss(ctx context.Context) (domain.LiveStats, error) {
	var out domain.LiveStats
	err := c.getJSON(ctx, "/live_profit_loss", nil, &out)
	return out, err
}

// DailyProfitLoss fetches the fixed 24h-window comparison.
func (c *TrackerClient) DailyProfitLoss(ctx context.Context) (domain.DailyDelta, error) {
	var out domain.DailyDelta
	err := c.getJSON(ctx, "/daily_profit_loss", nil, &out)
	return out, err
}

// Transactions fetches the manual transaction list.
func (c *TrackerClient) Transactions(ctx context.Context) ([]domain.TransactionRecord, error) {
	var out []domain.TransactionRecord
	err := c.getJSON(ctx, "/transactions", nil, &out)
	return out, err
}

// PortfolioHistory fetches the value/profit time series at the given
// granularity (daily, weekly, monthly).
func (c *TrackerClient) PortfolioHistory(ctx context.Context, frequency string) ([]domain.HistoryPoint, error) {
	var out []domain.HistoryPoint
	query := url.Values{"frequency": []string{frequency}}
	err := c.getJSON(ctx, "/portfolio_history", query, &out)
	return out, err
}

// CurrentPrices fetches current unit prices for both coins.
func (c *TrackerClient) CurrentPrices(ctx context.Context) (domain.CurrentPrices, error) {
	var out domain.CurrentPrices
	err := c.getJSON(ctx, "/current_prices", nil, &out)
	return out, err
}

// TransactionAnalysis fetches the per-coin manual-transaction breakdown.
func (c *TrackerClient) TransactionAnalysis(ctx context.Context) (domain.TransactionAnalysis, error) {
	var out domain.TransactionAnalysis
	err := c.getJSON(ctx, "/transaction_analysis", nil, &out)
	return out, err
}

// addTransactionRequest is the POST /add_transaction body. Server-assigned
// fields of TransactionRecord are deliberately not sent.
type addTransactionRequest struct {
	Coin   domain.Coin     `json:"coin"`
	Type   domain.TxType   `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Date   string          `json:"date"`
}

// addTransactionResponse is the success payload of POST /add_transaction.
type addTransactionResponse struct {
	Message     string                   `json:"message"`
	Transaction domain.TransactionRecord `json:"transaction"`
	Error       string                   `json:"error,omitempty"`
}

// AddTransaction submits a new manual transaction and returns the record as
// persisted by the service. The service may report application errors with a
// success status code, so a body-level error field is surfaced as DomainError
// regardless of status.
func (c *TrackerClient) AddTransaction(ctx context.Context, tx domain.TransactionRecord) (domain.TransactionRecord, error) {
	endpoint := c.baseURL + "/add_transaction"

	body, err := json.Marshal(addTransactionRequest{
		Coin:   tx.Coin,
		Type:   tx.Type,
		Amount: tx.Amount,
		Price:  tx.Price,
		Date:   tx.Date,
	})
	if err != nil {
		return domain.TransactionRecord{}, errors.Wrap(err, "failed to marshal transaction")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.TransactionRecord{}, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TransactionRecord{}, &NetworkError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.TransactionRecord{}, &NetworkError{URL: endpoint, Err: err}
	}

	var parsed addTransactionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return domain.TransactionRecord{}, &NetworkError{URL: endpoint, StatusCode: resp.StatusCode}
		}
		return domain.TransactionRecord{}, &DecodeError{URL: endpoint, Err: err}
	}
	if parsed.Error != "" {
		return domain.TransactionRecord{}, &DomainError{Message: parsed.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.TransactionRecord{}, &NetworkError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	return parsed.Transaction, nil
}

// cacheBustToken returns wall-clock milliseconds, bumped past the previously
// issued token so two calls in the same process never collide on a cache key.
func (c *TrackerClient) cacheBustToken() int64 {
	now := time.Now().UnixMilli()
	for {
		last := c.lastToken.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if c.lastToken.CompareAndSwap(last, next) {
			return next
		}
	}
}

// getJSON performs a cache-defeating GET and decodes the JSON response into out.
func (c *TrackerClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("_", strconv.FormatInt(c.cacheBustToken(), 10))
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{URL: endpoint, Err: err}
	}

	// the service reports failures as {"error": "..."} objects, sometimes
	// with a 200 status
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && probe.Error != "" {
		return &DomainError{Message: probe.Error}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{URL: endpoint, Err: err}
	}
	return nil
}
