package recurring

import "time"

// filterWindow keeps transactions dated within the trailing WindowMonths of
// today whose category is not excluded. Order is preserved; sorting happens
// later, per series.
func filterWindow(txns []Transaction, today time.Time, excluded map[string]bool) []Transaction {
	cutoff := midnight(today).AddDate(0, -WindowMonths, 0)

	var kept []Transaction
	for _, t := range txns {
		if t.Date.IsZero() || midnight(t.Date).Before(cutoff) {
			continue
		}
		if excluded[t.Category] {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
