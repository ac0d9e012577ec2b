package recurring

import (
	"testing"

	"github.com/shopspring/decimal"
)

// makeSeries builds a date-sorted series with one transaction per date, all
// carrying the same amount.
func makeSeries(name string, amount float64, dates ...string) series {
	txns := make([]seriesTxn, 0, len(dates))
	for _, ds := range dates {
		txns = append(txns, seriesTxn{
			date:   midnight(day(ds)),
			name:   name,
			amount: decimal.NewFromFloat(amount),
		})
	}
	return series{key: PatternKey(name), txns: txns}
}

func TestClassifyLivenessGate(t *testing.T) {
	// A clean monthly pattern whose last transaction is more than 60 days
	// old is presumed lapsed.
	s := makeSeries("Netflix", 15.99,
		"2024-01-01", "2024-01-31", "2024-03-01")

	if _, ok := classify(s, dayGaps(s.txns), day("2024-06-01")); ok {
		t.Error("classify() accepted a lapsed series")
	}

	// The same series is accepted when today is close enough.
	if _, ok := classify(s, dayGaps(s.txns), day("2024-03-20")); !ok {
		t.Error("classify() rejected a live monthly series")
	}
}

func TestClassifyAmountVarianceGate(t *testing.T) {
	s := makeSeries("Netflix", 15.99,
		"2024-01-01", "2024-01-31", "2024-03-01")
	// Push one amount ~25% above the rest.
	s.txns[1].amount = decimal.NewFromFloat(19.99)

	if _, ok := classify(s, dayGaps(s.txns), day("2024-03-20")); ok {
		t.Error("classify() accepted a series with >10% amount deviation")
	}
}

func TestClassifyZeroAmounts(t *testing.T) {
	s := makeSeries("Netflix", 0,
		"2024-01-01", "2024-01-31", "2024-03-01")

	if _, ok := classify(s, dayGaps(s.txns), day("2024-03-20")); ok {
		t.Error("classify() accepted a series with a zero mean amount")
	}
}

func TestClassifyMonthly(t *testing.T) {
	s := makeSeries("Netflix", 15.99,
		"2024-01-10", "2024-02-09", "2024-03-10", "2024-04-09", "2024-05-09", "2024-06-08")

	c, ok := classify(s, dayGaps(s.txns), day("2024-06-20"))
	if !ok {
		t.Fatal("classify() rejected a clean 30-day series")
	}
	if c.frequency != Monthly {
		t.Errorf("frequency = %q, expected %q", c.frequency, Monthly)
	}
	if c.avgInterval != 30 {
		t.Errorf("avgInterval = %v, expected 30", c.avgInterval)
	}
}

func TestClassifyMonthlyDensityCheck(t *testing.T) {
	// Live (last transaction 50 days ago) but with only one occurrence in
	// the trailing 4 months: a stale series that must not count as monthly.
	s := makeSeries("Netflix", 15.99,
		"2023-10-01", "2023-10-31", "2023-11-30", "2023-12-30", "2024-05-01")

	if _, ok := classify(s, dayGaps(s.txns), day("2024-06-20")); ok {
		t.Error("classify() accepted a monthly series failing the density check")
	}
}

func TestClassifyMonthlyGapShare(t *testing.T) {
	// Two monthly-shaped gaps drowned out by three irregular ones: less
	// than half the gaps qualify, so the monthly rule must not fire.
	s := makeSeries("Corner Shop", 12.50,
		"2023-08-01", "2023-08-11", "2023-08-21", "2024-04-25", "2024-05-25", "2024-06-24")

	c, ok := classify(s, dayGaps(s.txns), day("2024-06-30"))
	// The 90-day fallback may still rescue the recent cadence; what must
	// not happen is acceptance through the primary monthly rule with the
	// stale gaps included.
	if ok && c.avgInterval != 30 {
		t.Errorf("avgInterval = %v, expected the recent mean of 30", c.avgInterval)
	}
}

func TestClassifyYearly(t *testing.T) {
	s := makeSeries("Insurance Co", 500,
		"2023-06-15", "2024-06-14")

	c, ok := classify(s, dayGaps(s.txns), day("2024-07-01"))
	if !ok {
		t.Fatal("classify() rejected a clean yearly series")
	}
	if c.frequency != Yearly {
		t.Errorf("frequency = %q, expected %q", c.frequency, Yearly)
	}
	if c.avgInterval != 365 {
		t.Errorf("avgInterval = %v, expected 365", c.avgInterval)
	}
}

func TestClassifyTwoPointMonthly(t *testing.T) {
	s := makeSeries("Gym Membership", 40,
		"2024-05-01", "2024-05-29")

	c, ok := classify(s, dayGaps(s.txns), day("2024-06-20"))
	if !ok {
		t.Fatal("classify() rejected a two-point monthly series")
	}
	if c.frequency != Monthly {
		t.Errorf("frequency = %q, expected %q", c.frequency, Monthly)
	}
	if c.avgInterval != 28 {
		t.Errorf("avgInterval = %v, expected 28", c.avgInterval)
	}
}

func TestClassifyRecentFallback(t *testing.T) {
	// One stray old transaction plus a fresh monthly cadence: too short for
	// the primary monthly rule, rescued by the 90-day fallback.
	s := makeSeries("Cloud Storage", 2.99,
		"2024-01-01", "2024-05-05", "2024-06-03")

	c, ok := classify(s, dayGaps(s.txns), day("2024-06-20"))
	if !ok {
		t.Fatal("classify() rejected a series the fallback should rescue")
	}
	if c.frequency != Monthly {
		t.Errorf("frequency = %q, expected %q", c.frequency, Monthly)
	}
	if c.avgInterval != 29 {
		t.Errorf("avgInterval = %v, expected 29", c.avgInterval)
	}
}

func TestClassifyFallbackMeanOutOfBand(t *testing.T) {
	// The recent window holds one monthly-shaped gap, but the mean of the
	// recent gaps is well above 37 days.
	s := makeSeries("Corner Shop", 12.50,
		"2024-03-25", "2024-04-23", "2024-06-12")

	if _, ok := classify(s, dayGaps(s.txns), day("2024-06-20")); ok {
		t.Error("classify() accepted a fallback series with an out-of-band mean gap")
	}
}

func TestClassifyRejectsIrregular(t *testing.T) {
	s := makeSeries("Corner Shop", 12.50,
		"2024-04-01", "2024-04-05", "2024-04-22", "2024-06-10")

	if _, ok := classify(s, dayGaps(s.txns), day("2024-06-20")); ok {
		t.Error("classify() accepted an irregular series")
	}
}
