package recurring

import (
	"time"

	"github.com/shopspring/decimal"
)

// classification is the accepted half of the classifier's tagged result: the
// assigned frequency plus the average qualifying interval the projector uses.
// The rejected half is the ok=false return from classify.
type classification struct {
	frequency   Frequency
	avgInterval float64
}

// classify runs the ordered rule chain over one candidate series. The order
// is policy and must not be rearranged: hard gates first (liveness, amount
// variance), then the monthly rule, the yearly rule, the two-point monthly
// special case, and last the 90-day fallback. The first accepting rule wins;
// a series no rule accepts is dropped without comment, not reported as
// "unknown".
func classify(s series, gaps []int, today time.Time) (classification, bool) {
	if isLapsed(s, today) {
		return classification{}, false
	}
	if !amountsSteady(s) {
		return classification{}, false
	}
	if c, ok := classifyMonthly(s, gaps, today); ok {
		return c, true
	}
	if c, ok := classifyYearly(s, gaps); ok {
		return c, true
	}
	if c, ok := classifyTwoPointMonthly(s, gaps, today); ok {
		return c, true
	}
	return classifyRecentFallback(s, today)
}

// isLapsed reports whether the series has gone quiet: no transaction within
// LivenessDays of today means the subscription is presumed cancelled, no
// matter how clean its historical pattern looks.
func isLapsed(s series, today time.Time) bool {
	last := s.txns[len(s.txns)-1].date
	return last.Before(midnight(today).AddDate(0, 0, -LivenessDays))
}

// amountsSteady applies the variance gate: every amount must sit within
// AmountTolerance of the series mean. A non-positive mean rejects outright,
// which also guards the division.
func amountsSteady(s series) bool {
	avg := averageAmount(s)
	if !avg.IsPositive() {
		return false
	}
	limit := avg.Mul(AmountTolerance)
	for _, t := range s.txns {
		if t.amount.Sub(avg).Abs().GreaterThan(limit) {
			return false
		}
	}
	return true
}

func averageAmount(s series) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range s.txns {
		sum = sum.Add(t.amount)
	}
	return sum.Div(decimal.NewFromInt(int64(len(s.txns))))
}

// classifyMonthly is the primary monthly rule: at least 3 transactions, at
// least 2 monthly-shaped gaps making up at least MinGapShare of all gaps,
// and the density check.
func classifyMonthly(s series, gaps []int, today time.Time) (classification, bool) {
	monthly := gapsWithin(gaps, MonthlyGapMinDays, MonthlyGapMaxDays)
	if len(s.txns) < 3 || len(monthly) < 2 {
		return classification{}, false
	}
	if float64(len(monthly)) < MinGapShare*float64(len(gaps)) {
		return classification{}, false
	}
	if !meetsDensity(s, today) {
		return classification{}, false
	}
	return classification{frequency: Monthly, avgInterval: meanGap(monthly)}, true
}

// classifyYearly accepts an annual commitment: at least 2 transactions with
// at least one yearly-shaped gap making up at least MinGapShare of all gaps.
func classifyYearly(s series, gaps []int) (classification, bool) {
	yearly := gapsWithin(gaps, YearlyGapMinDays, YearlyGapMaxDays)
	if len(s.txns) < 2 || len(yearly) < 1 {
		return classification{}, false
	}
	if float64(len(yearly)) < MinGapShare*float64(len(gaps)) {
		return classification{}, false
	}
	return classification{frequency: Yearly, avgInterval: meanGap(yearly)}, true
}

// classifyTwoPointMonthly accepts the smallest possible monthly series:
// exactly two transactions one monthly-shaped gap apart, provided the
// density check still holds.
func classifyTwoPointMonthly(s series, gaps []int, today time.Time) (classification, bool) {
	if len(s.txns) != 2 || len(gaps) != 1 {
		return classification{}, false
	}
	if !monthlyShaped(gaps[0]) || !meetsDensity(s, today) {
		return classification{}, false
	}
	return classification{frequency: Monthly, avgInterval: float64(gaps[0])}, true
}

// classifyRecentFallback rescues a series statistically too short for the
// primary monthly rule but showing a fresh, convincing cadence: within the
// trailing FallbackWindowDays, at least two transactions with at least one
// monthly-shaped gap and a mean gap that is itself monthly-shaped.
func classifyRecentFallback(s series, today time.Time) (classification, bool) {
	cutoff := midnight(today).AddDate(0, 0, -FallbackWindowDays)
	recent := txnsSince(s.txns, cutoff)
	if len(recent) < 2 {
		return classification{}, false
	}
	recentGaps := dayGaps(recent)
	if len(gapsWithin(recentGaps, MonthlyGapMinDays, MonthlyGapMaxDays)) == 0 {
		return classification{}, false
	}
	mean := meanGap(recentGaps)
	if mean < MonthlyGapMinDays || mean > MonthlyGapMaxDays {
		return classification{}, false
	}
	return classification{frequency: Monthly, avgInterval: mean}, true
}

func monthlyShaped(gap int) bool {
	return gap >= MonthlyGapMinDays && gap <= MonthlyGapMaxDays
}

// meetsDensity checks that the series is genuinely active: at least
// DensityMinCount transactions within the trailing DensityWindowMonths of
// today.
func meetsDensity(s series, today time.Time) bool {
	cutoff := midnight(today).AddDate(0, -DensityWindowMonths, 0)
	return countSince(s.txns, cutoff) >= DensityMinCount
}
