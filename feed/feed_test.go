package feed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		expected string
	}{
		{name: "no filter", filter: Filter{}, expected: ""},
		{name: "start only", filter: Filter{StartDate: 1700000000}, expected: "?start-date=1700000000"},
		{name: "start and end", filter: Filter{StartDate: 1700000000, EndDate: 1710000000}, expected: "?start-date=1700000000&end-date=1710000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New("http://example.test")
			f.SetFilter(tt.filter)
			if got := f.ToQuery(); got != tt.expected {
				t.Errorf("ToQuery() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("start-date") != "1700000000" {
			t.Errorf("start-date = %q, expected 1700000000", r.URL.Query().Get("start-date"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"errors": ["example feed warning"],
			"transactions": [
				{"id": "t1", "date": "2024-01-05", "category": "subscriptions", "counterparty": "Netflix.com", "amount_usd": "-15.99"},
				{"id": "t2", "date": "2024-01-06", "category": "groceries", "counterparty": "Tesco", "amount_gbp": "-42.10"}
			]
		}`))
	}))
	defer srv.Close()

	f := New(srv.URL)
	f.SetFilter(Filter{StartDate: 1700000000})

	resp, err := f.Transactions()
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}

	if len(resp.Errors) != 1 {
		t.Errorf("Errors = %v, expected one warning", resp.Errors)
	}
	if len(resp.Transactions) != 2 {
		t.Fatalf("got %d transactions, expected 2", len(resp.Transactions))
	}

	first := resp.Transactions[0]
	if !first.AmountUSD.Valid || !first.AmountUSD.Decimal.Equal(decimal.RequireFromString("-15.99")) {
		t.Errorf("AmountUSD = %+v, expected -15.99", first.AmountUSD)
	}
	if first.AmountGBP.Valid {
		t.Error("AmountGBP should be unset for a USD-only record")
	}

	second := resp.Transactions[1]
	if !second.AmountGBP.Valid || !second.AmountGBP.Decimal.Equal(decimal.RequireFromString("-42.10")) {
		t.Errorf("AmountGBP = %+v, expected -42.10", second.AmountGBP)
	}
}

func TestTransactionsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := New(srv.URL)
	if _, err := f.Transactions(); err == nil {
		t.Error("Transactions() error = nil, expected an error for a non-200 status")
	}
}
