package recurring

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency identifies one of the two amount legs a feed transaction can carry.
type Currency string

const (
	USD Currency = "USD"
	GBP Currency = "GBP"
)

// Frequency is the detected cadence of a recurring payment.
type Frequency string

const (
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Detection policy. These thresholds are product policy, not tuning knobs;
// changing any of them changes which payments households see and must be
// treated as a policy revision.
const (
	// WindowMonths is the trailing transaction window fed to the pipeline.
	WindowMonths = 12
	// LivenessDays bounds how stale a series may be before it is presumed
	// lapsed or cancelled.
	LivenessDays = 60
	// MonthlyGapMinDays..MonthlyGapMaxDays is the day-gap range counted as
	// monthly-shaped.
	MonthlyGapMinDays = 25
	MonthlyGapMaxDays = 37
	// YearlyGapMinDays..YearlyGapMaxDays is the day-gap range counted as
	// yearly-shaped.
	YearlyGapMinDays = 330
	YearlyGapMaxDays = 400
	// MinGapShare is the fraction of a series's gaps that must be
	// monthly/yearly-shaped for the corresponding rule to accept.
	MinGapShare = 0.5
	// DensityWindowMonths / DensityMinCount: a monthly series must show at
	// least DensityMinCount transactions within the trailing
	// DensityWindowMonths, distinguishing an active subscription from a
	// stale but technically-recent one.
	DensityWindowMonths = 4
	DensityMinCount     = 2
	// FallbackWindowDays is the recent window inspected by the relaxed
	// monthly rule for series too short for the primary one.
	FallbackWindowDays = 90
	// PatternKeyLength is the counterparty prefix length used for grouping.
	PatternKeyLength = 5
)

// AmountTolerance is the maximum relative deviation of any single transaction
// from its series mean before the series is rejected as non-recurring.
var AmountTolerance = decimal.NewFromFloat(0.10)

// Transaction is one immutable feed record. A transaction participates in
// detection only when Counterparty is non-empty and at least one leg carries
// a negative (outflow) amount.
type Transaction struct {
	Date         time.Time
	Category     string
	Counterparty string
	AmountUSD    decimal.NullDecimal
	AmountGBP    decimal.NullDecimal
}

// Payment is one detected recurring payment. It is display-ready: the amount
// is already converted into the requested currency and the next occurrence is
// already projected, so the presentation layer performs no business logic.
type Payment struct {
	PatternKey          string          `json:"pattern_key"`
	DisplayName         string          `json:"display_name"`
	Frequency           Frequency       `json:"frequency"`
	AverageAmount       decimal.Decimal `json:"average_amount"`
	Currency            Currency        `json:"currency"`
	NextExpectedDate    time.Time       `json:"next_expected_date"`
	TransactionCount    int             `json:"transaction_count"`
	LastTransactionDate time.Time       `json:"last_transaction_date"`
	Ignored             bool            `json:"ignored"`
}

// Options carries everything Detect needs beyond the transactions themselves.
// Detect never mutates any field, so one Options value may be shared across
// concurrent invocations.
type Options struct {
	// Today anchors all trailing windows (12-month filter, liveness,
	// density, 90-day fallback).
	Today time.Time
	// Currency selects which leg amounts are normalized into.
	Currency Currency
	// FxRate is the number of GBP per 1 USD. It is only consulted when a
	// transaction carries no usable amount in the target currency.
	FxRate decimal.Decimal
	// ExcludedCategories are dropped before grouping. Nil means
	// DefaultExcludedCategories.
	ExcludedCategories map[string]bool
	// Ignored holds pattern keys the user has chosen to ignore, matched
	// case-insensitively. Matching payments are retained but flagged and
	// ordered after active ones.
	Ignored map[string]bool
}

// DefaultExcludedCategories is the non-spend category set dropped before
// grouping: internal movements and inbound money that can never be a
// subscription charge.
func DefaultExcludedCategories() map[string]bool {
	return map[string]bool{
		"transfers-in":      true,
		"gifts-received":    true,
		"internal-excluded": true,
	}
}
