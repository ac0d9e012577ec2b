// Package recurring detects recurring payments (subscriptions, annual
// commitments) in a household transaction feed. The pipeline runs in one
// synchronous pass: window/category filter, currency normalization, pattern
// grouping, interval analysis, rule-chain classification, projection of the
// next expected date, and finally the user's ignore-preference overlay.
// Anything that cannot be unambiguously classified is silently dropped, never
// reported as an error.
package recurring

import (
	"math"
)

// Detect runs the full detection pipeline over a raw transaction feed and
// returns the recurring payments grouped by frequency (monthly first) and
// ordered within each group by next expected date ascending, active entries
// before ignored ones.
//
// Detect is a pure function of its arguments: no I/O, no shared state, safe
// to call concurrently. An empty or entirely unusable feed yields nil.
func Detect(txns []Transaction, opts Options) []Payment {
	excluded := opts.ExcludedCategories
	if excluded == nil {
		excluded = DefaultExcludedCategories()
	}

	filtered := filterWindow(txns, opts.Today, excluded)
	grouped := groupByPattern(filtered, opts.Currency, opts.FxRate)

	var payments []Payment
	for _, s := range grouped {
		if len(s.txns) < 2 {
			continue
		}
		c, ok := classify(s, dayGaps(s.txns), opts.Today)
		if !ok {
			continue
		}
		payments = append(payments, project(s, c, opts.Currency))
	}

	return overlay(payments, opts.Ignored)
}

// project turns an accepted series into its output record. The next expected
// occurrence is the last transaction date plus the rounded average qualifying
// interval the classifier settled on.
func project(s series, c classification, currency Currency) Payment {
	last := s.txns[len(s.txns)-1].date
	return Payment{
		PatternKey:          s.key,
		DisplayName:         displayName(s),
		Frequency:           c.frequency,
		AverageAmount:       averageAmount(s),
		Currency:            currency,
		NextExpectedDate:    last.AddDate(0, 0, int(math.Round(c.avgInterval))),
		TransactionCount:    len(s.txns),
		LastTransactionDate: last,
	}
}
