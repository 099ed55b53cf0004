// Package client is the typed HTTP client for the reckon API, used by the
// terminal client. Every method maps to one endpoint; non-2xx responses are
// decoded into an *APIError carrying the server's message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// Record is the wire shape of one submitted transaction. The server never
// trusts it; every record is re-validated on arrival.
type Record struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

// NewRecord converts validated params into their wire form.
func NewRecord(p transaction.CreateParams) Record {
	return Record{
		Type:        string(p.Type),
		Amount:      p.Amount.InexactFloat64(),
		Category:    p.Category,
		Date:        p.Date.Format(time.DateOnly),
		Description: p.Description,
	}
}

// Transaction is a persisted record as the API returns it.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BulkSuccessEntry struct {
	Index       int         `json:"index"`
	Transaction Transaction `json:"transaction"`
}

type BulkErrorEntry struct {
	Index int    `json:"index"`
	Error string `json:"error"`
	Data  Record `json:"data"`
}

type BulkResults struct {
	Success []BulkSuccessEntry `json:"success"`
	Errors  []BulkErrorEntry   `json:"errors"`
}

// BulkResponse is the per-index accounting of one bulk upload. The request
// itself succeeds even when every record fails; only a transport failure or
// a malformed body surfaces as an error from CreateBulk.
type BulkResponse struct {
	Message      string      `json:"message"`
	SuccessCount int         `json:"successCount"`
	ErrorCount   int         `json:"errorCount"`
	Results      BulkResults `json:"results"`
}

type bulkRequest struct {
	Transactions []Record `json:"transactions"`
}

// CreateBulk uploads a batch for ingestion and returns the per-record
// outcomes. On error, none of the records were acknowledged and the caller
// should treat the whole batch as failed.
func (c *Client) CreateBulk(ctx context.Context, records []Record) (*BulkResponse, error) {
	var resp BulkResponse
	if err := c.post(ctx, "/api/transactions/bulk", bulkRequest{Transactions: records}, http.StatusOK, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Create persists a single record.
func (c *Client) Create(ctx context.Context, rec Record) (*Transaction, error) {
	var resp Transaction
	if err := c.post(ctx, "/api/transactions", rec, http.StatusCreated, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// ListOptions filter the transaction listing. Zero values are omitted.
type ListOptions struct {
	Limit     int
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

func (o ListOptions) query() url.Values {
	q := url.Values{}

	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}

	if o.Type != "" {
		q.Set("type", o.Type)
	}

	if o.StartDate != nil {
		q.Set("start_date", o.StartDate.Format(time.DateOnly))
	}

	if o.EndDate != nil {
		q.Set("end_date", o.EndDate.Format(time.DateOnly))
	}

	return q
}

func (c *Client) List(ctx context.Context, opts ListOptions) ([]Transaction, error) {
	var resp []Transaction
	if err := c.get(ctx, "/api/transactions", opts.query(), &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

type Stats struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpenses    float64 `json:"totalExpenses"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transactionCount"`
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var resp Stats
	if err := c.get(ctx, "/api/stats", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

type MonthSummary struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

func (c *Client) MonthlyOverview(ctx context.Context, months int) ([]MonthSummary, error) {
	q := url.Values{}
	if months > 0 {
		q.Set("months", strconv.Itoa(months))
	}

	var resp []MonthSummary
	if err := c.get(ctx, "/api/monthly-overview", q, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

type CategorySummary struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

func (c *Client) CategoryBreakdown(ctx context.Context) ([]CategorySummary, error) {
	var resp []CategorySummary
	if err := c.get(ctx, "/api/category-breakdown", nil, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

type suggestResponse struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

// SuggestCategory asks the server for a category matching the description.
// Empty string means no stored rule matched.
func (c *Client) SuggestCategory(ctx context.Context, description string) (string, error) {
	q := url.Values{}
	q.Set("description", description)

	var resp suggestResponse
	if err := c.get(ctx, "/api/categories/suggest", q, &resp); err != nil {
		return "", err
	}

	return resp.Category, nil
}

type learnRequest struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

// LearnCategory records that descriptions containing pattern belong to
// category.
func (c *Client) LearnCategory(ctx context.Context, pattern, category string) error {
	return c.post(ctx, "/api/categories", learnRequest{Pattern: pattern, Category: category}, http.StatusCreated, nil)
}

// Export downloads a CSV of stored transactions. The filename comes from the
// server's Content-Disposition header.
func (c *Client) Export(ctx context.Context, startDate, endDate *time.Time) (string, []byte, error) {
	q := url.Values{}

	if startDate != nil {
		q.Set("start_date", startDate.Format(time.DateOnly))
	}

	if endDate != nil {
		q.Set("end_date", endDate.Format(time.DateOnly))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/export", q), nil)
	if err != nil {
		return "", nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, apiError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading export: %w", err)
	}

	filename := "transactions.csv"

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}

	return filename, data, nil
}

func (c *Client) url(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	return u
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, q), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	return c.do(req, http.StatusOK, out)
}

func (c *Client) post(ctx context.Context, path string, body any, want int, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, nil), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, want, out)
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// apiError turns an unexpected response into an *APIError, preferring the
// server's {"error": ...} body over the bare status text.
func apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Error string `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}

	return apiErr
}
