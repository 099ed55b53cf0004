package stats_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	statshttp "github.com/KVinaykumar2002/reckon-snap/internal/http/stats"
	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

func newTestRouter(t *testing.T) (*transaction.MockRepository, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/api", statshttp.NewHandler(transaction.NewService(repo, 1)).Routes)

	return repo, r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_Stats(t *testing.T) {
	repo, router := newTestRouter(t)

	repo.EXPECT().
		Stats(gomock.Any()).
		Return(&transaction.Stats{
			TotalIncome:      decimal.NewFromInt(3000),
			TotalExpenses:    decimal.NewFromFloat(1250.75),
			Balance:          decimal.NewFromFloat(1749.25),
			TransactionCount: 42,
		}, nil)

	rec := get(router, "/api/stats")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 3000.0, body["totalIncome"])
	assert.Equal(t, 1250.75, body["totalExpenses"])
	assert.Equal(t, 1749.25, body["balance"])
	assert.Equal(t, 42.0, body["transactionCount"])
}

func TestHandler_Stats_RepoError(t *testing.T) {
	repo, router := newTestRouter(t)

	repo.EXPECT().Stats(gomock.Any()).Return(nil, assert.AnError)

	rec := get(router, "/api/stats")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal error"}`, rec.Body.String())
}

func TestHandler_MonthlyOverview(t *testing.T) {
	repo, router := newTestRouter(t)

	repo.EXPECT().
		MonthlyOverview(gomock.Any(), 6).
		Return([]transaction.MonthSummary{
			{Month: "2024-01", Income: decimal.NewFromInt(100), Expenses: decimal.NewFromInt(50)},
			{Month: "2024-02", Income: decimal.NewFromInt(200), Expenses: decimal.NewFromInt(75)},
		}, nil)

	rec := get(router, "/api/monthly-overview")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body, 2)
	assert.Equal(t, "2024-01", body[0]["month"])
	assert.Equal(t, 100.0, body[0]["income"])
	assert.Equal(t, 50.0, body[0]["expenses"])
}

func TestHandler_MonthlyOverview_MonthsParam(t *testing.T) {
	repo, router := newTestRouter(t)

	repo.EXPECT().MonthlyOverview(gomock.Any(), 12).Return(nil, nil)

	rec := get(router, "/api/monthly-overview?months=12")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestHandler_MonthlyOverview_BadMonthsIgnored(t *testing.T) {
	repo, router := newTestRouter(t)

	// Unparseable and non-positive values fall back to the default.
	repo.EXPECT().MonthlyOverview(gomock.Any(), 6).Return(nil, nil).Times(2)

	require.Equal(t, http.StatusOK, get(router, "/api/monthly-overview?months=soon").Code)
	require.Equal(t, http.StatusOK, get(router, "/api/monthly-overview?months=-3").Code)
}

func TestHandler_CategoryBreakdown(t *testing.T) {
	repo, router := newTestRouter(t)

	repo.EXPECT().
		CategoryBreakdown(gomock.Any()).
		Return([]transaction.CategorySummary{
			{Category: "Food", Total: decimal.NewFromFloat(320.5), Count: 14},
			{Category: "Transport", Total: decimal.NewFromInt(80), Count: 6},
		}, nil)

	rec := get(router, "/api/category-breakdown")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body, 2)
	assert.Equal(t, "Food", body[0]["category"])
	assert.Equal(t, 320.5, body[0]["total"])
	assert.Equal(t, 14.0, body[0]["count"])
}
