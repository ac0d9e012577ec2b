package recurring

import "time"

// midnight truncates a timestamp to its calendar day in UTC so intra-day
// time differences never leak into gap arithmetic.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(midnight(b).Sub(midnight(a)).Hours() / 24)
}

// dayGaps returns the calendar-day gap between each consecutive pair of a
// date-sorted slice. Fewer than two transactions yields nil.
func dayGaps(txns []seriesTxn) []int {
	if len(txns) < 2 {
		return nil
	}
	gaps := make([]int, 0, len(txns)-1)
	for i := 1; i < len(txns); i++ {
		gaps = append(gaps, daysBetween(txns[i-1].date, txns[i].date))
	}
	return gaps
}

// gapsWithin filters gaps to those inside [min, max] inclusive.
func gapsWithin(gaps []int, min, max int) []int {
	var matched []int
	for _, g := range gaps {
		if g >= min && g <= max {
			matched = append(matched, g)
		}
	}
	return matched
}

func meanGap(gaps []int) float64 {
	sum := 0
	for _, g := range gaps {
		sum += g
	}
	return float64(sum) / float64(len(gaps))
}

// countSince counts transactions dated on or after the cutoff.
func countSince(txns []seriesTxn, cutoff time.Time) int {
	n := 0
	for _, t := range txns {
		if !t.date.Before(cutoff) {
			n++
		}
	}
	return n
}

// txnsSince returns the sub-series dated on or after the cutoff, order
// preserved.
func txnsSince(txns []seriesTxn, cutoff time.Time) []seriesTxn {
	var recent []seriesTxn
	for _, t := range txns {
		if !t.date.Before(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}
