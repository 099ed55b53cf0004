package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KVinaykumar2002/reckon-snap/internal/client"
	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

func newClient(ts *httptest.Server) *client.Client {
	return client.New(ts.URL, 5*time.Second)
}

func TestNewRecord(t *testing.T) {
	rec := client.NewRecord(transaction.CreateParams{
		Type:        transaction.TypeExpense,
		Amount:      decimal.NewFromFloat(12.5),
		Category:    "Food",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Lunch",
	})

	assert.Equal(t, client.Record{
		Type:        "expense",
		Amount:      12.5,
		Category:    "Food",
		Date:        "2024-01-15",
		Description: "Lunch",
	}, rec)
}

func TestClient_CreateBulk(t *testing.T) {
	var gotBody struct {
		Transactions []client.Record `json:"transactions"`
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transactions/bulk", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message": "Processed 2 transactions: 1 succeeded, 1 failed",
			"successCount": 1,
			"errorCount": 1,
			"results": {
				"success": [{"index": 0, "transaction": {"id": "6e8bc430-9c3a-11d9-9669-0800200c9a66", "description": "Groceries"}}],
				"errors": [{"index": 1, "error": "Category is required", "data": {"type": "expense", "amount": 5}}]
			}
		}`))
	}))
	defer ts.Close()

	records := []client.Record{
		{Type: "expense", Amount: 10, Category: "Food", Date: "2024-01-01", Description: "Groceries"},
		{Type: "expense", Amount: 5, Category: "", Date: "2024-01-01", Description: "no category"},
	}

	resp, err := newClient(ts).CreateBulk(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, records, gotBody.Transactions)

	assert.Equal(t, "Processed 2 transactions: 1 succeeded, 1 failed", resp.Message)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, 1, resp.ErrorCount)
	require.Len(t, resp.Results.Success, 1)
	assert.Equal(t, 0, resp.Results.Success[0].Index)
	require.Len(t, resp.Results.Errors, 1)
	assert.Equal(t, "Category is required", resp.Results.Errors[0].Error)
}

func TestClient_CreateBulk_ServerRejects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Transactions array is required and cannot be empty"}`))
	}))
	defer ts.Close()

	resp, err := newClient(ts).CreateBulk(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, resp)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Transactions array is required and cannot be empty", apiErr.Message)
}

func TestClient_CreateBulk_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // nothing listening

	resp, err := newClient(ts).CreateBulk(context.Background(), []client.Record{{Type: "expense"}})
	require.Error(t, err)
	assert.Nil(t, resp)

	// Transport failures carry no API error: the caller cannot tell how many
	// records landed and must treat the whole batch as failed.
	var apiErr *client.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_Create(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transactions", r.URL.Path)

		var rec client.Record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		assert.Equal(t, "Lunch", rec.Description)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": "6e8bc430-9c3a-11d9-9669-0800200c9a66",
			"type": "expense",
			"amount": 12.5,
			"category": "Food",
			"date": "2024-01-15T00:00:00Z",
			"description": "Lunch"
		}`))
	}))
	defer ts.Close()

	tx, err := newClient(ts).Create(context.Background(), client.Record{
		Type: "expense", Amount: 12.5, Category: "Food", Date: "2024-01-15", Description: "Lunch",
	})
	require.NoError(t, err)
	assert.Equal(t, "6e8bc430-9c3a-11d9-9669-0800200c9a66", tx.ID.String())
	assert.Equal(t, 12.5, tx.Amount)
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newClient(ts).Stats(context.Background())
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_List(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "expense", q.Get("type"))
		assert.Equal(t, "2024-01-01", q.Get("start_date"))
		assert.Equal(t, "2024-01-31", q.Get("end_date"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "6e8bc430-9c3a-11d9-9669-0800200c9a66", "type": "expense", "amount": 12.5}]`))
	}))
	defer ts.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	txs, err := newClient(ts).List(context.Background(), client.ListOptions{
		Limit:     25,
		Type:      "expense",
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)

	require.Len(t, txs, 1)
	assert.Equal(t, "expense", txs[0].Type)
	assert.Equal(t, 12.5, txs[0].Amount)
}

func TestClient_SuggestCategory(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/suggest", r.URL.Path)
		assert.Equal(t, "MERCADO CENTRAL", r.URL.Query().Get("description"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"description": "MERCADO CENTRAL", "category": "Groceries"}`))
	}))
	defer ts.Close()

	category, err := newClient(ts).SuggestCategory(context.Background(), "MERCADO CENTRAL")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", category)
}

func TestClient_LearnCategory(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/categories", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"pattern": "uber", "category": "Transport"}, body)

		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	require.NoError(t, newClient(ts).LearnCategory(context.Background(), "uber", "Transport"))
}

func TestClient_Export(t *testing.T) {
	csv := "type,amount,category,date,description\nexpense,12.5,Food,2024-01-15,Lunch\n"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/export", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=transactions-2024-03-09.csv")
		_, _ = w.Write([]byte(csv))
	}))
	defer ts.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	filename, data, err := newClient(ts).Export(context.Background(), &start, nil)
	require.NoError(t, err)
	assert.Equal(t, "transactions-2024-03-09.csv", filename)
	assert.Equal(t, csv, string(data))
}

func TestClient_Export_MissingDisposition(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("type,amount,category,date,description\n"))
	}))
	defer ts.Close()

	filename, _, err := newClient(ts).Export(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "transactions.csv", filename)
}
