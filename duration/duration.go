// Package duration extends time.ParseDuration with day and week suffixes,
// which the feed lookback windows are naturally expressed in ("365d", "4w").
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses durations like "90d", "4w", "-5d", or anything
// time.ParseDuration accepts. Days are treated as exactly 24 hours.
func ParseDuration(s string) (time.Duration, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty duration")
	}

	unit := time.Duration(0)
	switch {
	case strings.HasSuffix(trimmed, "d"):
		unit = 24 * time.Hour
	case strings.HasSuffix(trimmed, "w"):
		unit = 7 * 24 * time.Hour
	}

	if unit == 0 {
		return time.ParseDuration(trimmed)
	}

	n, err := strconv.ParseFloat(trimmed[:len(trimmed)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return time.Duration(n * float64(unit)), nil
}
