package recurring

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		a, b     time.Time
		expected int
	}{
		{
			name:     "plain calendar days",
			a:        day("2024-01-05"),
			b:        day("2024-02-04"),
			expected: 30,
		},
		{
			name:     "time of day never counts",
			a:        time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC),
			b:        time.Date(2024, 1, 6, 0, 1, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "same day",
			a:        day("2024-01-05"),
			b:        day("2024-01-05"),
			expected: 0,
		},
		{
			name:     "across the leap day",
			a:        day("2024-02-01"),
			b:        day("2024-03-01"),
			expected: 29,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := daysBetween(tt.a, tt.b); got != tt.expected {
				t.Errorf("daysBetween() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestDayGaps(t *testing.T) {
	s := makeSeries("Netflix", 15.99, "2024-01-05", "2024-02-04", "2024-03-06")

	gaps := dayGaps(s.txns)
	if len(gaps) != 2 || gaps[0] != 30 || gaps[1] != 31 {
		t.Errorf("dayGaps() = %v, expected [30 31]", gaps)
	}

	if gaps := dayGaps(s.txns[:1]); gaps != nil {
		t.Errorf("dayGaps() on a single transaction = %v, expected nil", gaps)
	}
}

func TestGapsWithin(t *testing.T) {
	gaps := []int{10, 25, 30, 37, 38, 365}

	monthly := gapsWithin(gaps, MonthlyGapMinDays, MonthlyGapMaxDays)
	if len(monthly) != 3 {
		t.Errorf("gapsWithin(monthly) = %v, expected the inclusive [25 30 37]", monthly)
	}

	yearly := gapsWithin(gaps, YearlyGapMinDays, YearlyGapMaxDays)
	if len(yearly) != 1 || yearly[0] != 365 {
		t.Errorf("gapsWithin(yearly) = %v, expected [365]", yearly)
	}
}

func TestMeanGap(t *testing.T) {
	if mean := meanGap([]int{30, 31}); mean != 30.5 {
		t.Errorf("meanGap() = %v, expected 30.5", mean)
	}
}
