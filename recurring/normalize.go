package recurring

import "github.com/shopspring/decimal"

// normalizeAmount resolves a transaction's outflow magnitude in the target
// currency. The native leg wins when it is present and negative; otherwise
// the other leg's negative amount is converted through the FX rate (GBP per
// 1 USD). A transaction with no usable negative amount in either leg is
// unusable and is dropped from its series entirely, not retained with a zero
// placeholder.
func normalizeAmount(t Transaction, currency Currency, fxRate decimal.Decimal) (decimal.Decimal, bool) {
	native, other := t.AmountUSD, t.AmountGBP
	if currency == GBP {
		native, other = t.AmountGBP, t.AmountUSD
	}

	if native.Valid && native.Decimal.IsNegative() {
		return native.Decimal.Neg(), true
	}
	if other.Valid && other.Decimal.IsNegative() && fxRate.IsPositive() {
		magnitude := other.Decimal.Neg()
		if currency == USD {
			return magnitude.Div(fxRate), true
		}
		return magnitude.Mul(fxRate), true
	}
	return decimal.Decimal{}, false
}
