// Package results holds the latest detection snapshot. The engine itself is
// pure and stateless, so the refresh loop publishes its output here and the
// HTTP handlers and the Prometheus collector read it without re-running the
// pipeline.
package results

import (
	"sync"
	"time"

	"github.com/finwatch/recurring-detector/recurring"
)

type Cache struct {
	mu           sync.Mutex // Protects the cached data
	transactions []recurring.Transaction
	payments     []recurring.Payment
	refreshedAt  time.Time
}

func NewCache() *Cache {
	return &Cache{}
}

// Publish replaces the snapshot in one step so readers never observe
// transactions from one refresh paired with payments from another.
func (c *Cache) Publish(txns []recurring.Transaction, payments []recurring.Payment, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactions = txns
	c.payments = payments
	c.refreshedAt = at
}

// UpdatePayments swaps the detection list while keeping the transaction
// snapshot and refresh time, for preference toggles between feed refreshes.
func (c *Cache) UpdatePayments(payments []recurring.Payment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payments = payments
}

// Payments returns the latest detection list and its refresh time.
func (c *Cache) Payments() ([]recurring.Payment, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payments, c.refreshedAt
}

// Transactions returns the converted transaction snapshot the latest
// detection ran over, for callers that re-run the pure engine with different
// options.
func (c *Cache) Transactions() []recurring.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transactions
}
