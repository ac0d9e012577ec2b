package recurring

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PatternKey derives the grouping key for a counterparty name: lowercase,
// trimmed, first PatternKeyLength runes. Collisions between unrelated short
// names (and splits across spellings of one merchant) are an accepted
// trade-off of the heuristic, not a bug to fix silently.
func PatternKey(counterparty string) string {
	r := []rune(strings.ToLower(strings.TrimSpace(counterparty)))
	if len(r) > PatternKeyLength {
		r = r[:PatternKeyLength]
	}
	return string(r)
}

// seriesTxn is one usable member of a candidate series: its calendar day,
// the raw counterparty as it appeared on the feed, and its normalized
// outflow magnitude in the target currency.
type seriesTxn struct {
	date   time.Time
	name   string
	amount decimal.Decimal
}

// series is a candidate recurring series: every usable transaction sharing a
// pattern key, sorted by date ascending.
type series struct {
	key  string
	txns []seriesTxn
}

// groupByPattern buckets normalized transactions into candidate series.
// Transactions with an empty counterparty or no usable amount are dropped.
// Each series comes back stably date-sorted, which interval analysis depends
// on. Output order follows first appearance of each key so results do not
// depend on map iteration.
func groupByPattern(txns []Transaction, currency Currency, fxRate decimal.Decimal) []series {
	buckets := make(map[string][]seriesTxn)
	var order []string

	for _, t := range txns {
		if strings.TrimSpace(t.Counterparty) == "" {
			continue
		}
		amount, ok := normalizeAmount(t, currency, fxRate)
		if !ok {
			continue
		}
		key := PatternKey(t.Counterparty)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], seriesTxn{
			date:   midnight(t.Date),
			name:   t.Counterparty,
			amount: amount,
		})
	}

	out := make([]series, 0, len(order))
	for _, key := range order {
		members := buckets[key]
		sort.SliceStable(members, func(i, j int) bool { return members[i].date.Before(members[j].date) })
		out = append(out, series{key: key, txns: members})
	}
	return out
}

// displayName picks the most frequent raw counterparty string in a
// date-sorted series. Ties go to the name whose first occurrence comes
// earliest.
func displayName(s series) string {
	counts := make(map[string]int, len(s.txns))
	for _, t := range s.txns {
		counts[t.name]++
	}

	best, bestCount := "", 0
	for _, t := range s.txns {
		if c := counts[t.name]; c > bestCount {
			best, bestCount = t.name, c
		}
	}
	return best
}
