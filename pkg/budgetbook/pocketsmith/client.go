// Package pocketsmith fetches account transactions from the PocketSmith API.
package pocketsmith

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
)

const (
	// DefaultBaseURL is the PocketSmith v2 API root.
	DefaultBaseURL = "https://api.pocketsmith.com/v2"
	// DefaultPageTimeout bounds each page request.
	DefaultPageTimeout = 30 * time.Second

	dateLayout = "2006-01-02"
)

// Client reads transactions page by page.
type Client struct {
	baseURL     string
	apiKey      string
	pageTimeout time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithPageTimeout sets the deadline for each page request.
func WithPageTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pageTimeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for paging progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client authenticating with a developer key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		pageTimeout: DefaultPageTimeout,
		httpClient:  &http.Client{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type transaction struct {
	Date     string          `json:"date"`
	Payee    string          `json:"payee"`
	Amount   decimal.Decimal `json:"amount"`
	Category *struct {
		Title string `json:"title"`
	} `json:"category"`
}

// Transactions returns the account's transactions dated start through end.
// Pages are requested until one comes back empty. A failed page ends paging
// and the transactions collected so far are returned.
func (c *Client) Transactions(ctx context.Context, accountID string, start, end time.Time) []models.Transaction {
	var all []models.Transaction
	for page := 1; ; page++ {
		if ctx.Err() != nil {
			c.logger.Warn("Stopped paging", "account", accountID, "page", page, "error", ctx.Err())
			return all
		}
		c.logger.Info("Fetching transactions", "account", accountID, "page", page)
		batch, n, err := c.fetchPage(ctx, accountID, page, start, end)
		if err != nil {
			c.logger.Warn("Stopped paging after failed request",
				"account", accountID, "page", page, "collected", len(all), "error", err)
			return all
		}
		if n == 0 {
			return all
		}
		all = append(all, batch...)
	}
}

// fetchPage returns the readable transactions of one page and the number of
// records the page held.
func (c *Client) fetchPage(ctx context.Context, accountID string, page int, start, end time.Time) ([]models.Transaction, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pageTimeout)
	defer cancel()

	u, err := url.Parse(fmt.Sprintf("%s/accounts/%s/transactions", c.baseURL, url.PathEscape(accountID)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse URL: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	if !start.IsZero() {
		q.Set("start_date", start.Format(dateLayout))
	}
	if !end.IsZero() {
		q.Set("end_date", end.Format(dateLayout))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Developer-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, fmt.Errorf("PocketSmith API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw []transaction
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	txs := make([]models.Transaction, 0, len(raw))
	for _, r := range raw {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			c.logger.Warn("Skipping transaction with unreadable date", "date", r.Date, "payee", r.Payee)
			continue
		}
		tx := models.Transaction{Date: date, Description: r.Payee, Amount: r.Amount}
		if r.Category != nil {
			tx.BankCategory = r.Category.Title
		}
		txs = append(txs, tx)
	}
	return txs, len(raw), nil
}
