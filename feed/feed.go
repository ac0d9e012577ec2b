// Package feed pulls the household transaction history from the ingestion
// pipeline's HTTP endpoint.
package feed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Feed struct {
	url    string
	client *http.Client
	filter Filter
}

type Filter struct {
	StartDate int64
	EndDate   int64
}

type TransactionsResponse struct {
	Errors       []string      `json:"errors"`
	Transactions []Transaction `json:"transactions"`
}

// Transaction is the wire shape of one feed record. Amounts are signed
// magnitudes (outflows negative); either leg, or both, may be populated.
type Transaction struct {
	ID           string              `json:"id"`
	Date         string              `json:"date"` // "2024-01-05"
	Category     string              `json:"category"`
	Counterparty string              `json:"counterparty"`
	AmountUSD    decimal.NullDecimal `json:"amount_usd"`
	AmountGBP    decimal.NullDecimal `json:"amount_gbp"`
}

var (
	APICalls float64 = 0
)

func New(accessURL string) *Feed {
	return &Feed{
		url:    accessURL,
		client: &http.Client{Timeout: time.Second * 30},
	}
}

func (f *Feed) SetFilter(newFilter Filter) { f.filter = newFilter }

func (f *Feed) ToQuery() string {
	appendQuery := "?"
	if f.filter.StartDate > 0 {
		appendQuery += fmt.Sprintf("start-date=%d&", f.filter.StartDate)
	}
	if f.filter.EndDate > 0 {
		appendQuery += fmt.Sprintf("end-date=%d&", f.filter.EndDate)
	}
	appendQuery = appendQuery[:len(appendQuery)-1]

	return appendQuery
}

// Transactions fetches the transaction window selected by the current filter.
func (f *Feed) Transactions() (TransactionsResponse, error) {
	var resp TransactionsResponse

	APICalls++
	getURL := f.url + "/transactions" + f.ToQuery()

	res, err := f.client.Get(getURL)
	if err != nil {
		return TransactionsResponse{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return TransactionsResponse{}, fmt.Errorf("%s - %v", res.Status, res.StatusCode)
	}

	err = json.NewDecoder(res.Body).Decode(&resp)
	if err != nil {
		return TransactionsResponse{}, err
	}

	return resp, nil
}
