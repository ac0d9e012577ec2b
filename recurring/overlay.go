package recurring

import (
	"strings"

	"golang.org/x/exp/slices"
)

// overlay applies the user's ignore preferences and fixes the presentation
// order. Ignored payments are kept, not dropped; callers display them
// de-emphasized with a restore action. The preference set itself is never
// written here: toggling a flag is an external write after which the caller
// re-runs Detect.
func overlay(payments []Payment, ignored map[string]bool) []Payment {
	ignoredKeys := make(map[string]bool, len(ignored))
	for key, isIgnored := range ignored {
		if isIgnored {
			ignoredKeys[strings.ToLower(strings.TrimSpace(key))] = true
		}
	}

	for i := range payments {
		payments[i].Ignored = ignoredKeys[payments[i].PatternKey]
	}

	slices.SortStableFunc(payments, func(a, b Payment) int {
		if r := frequencyRank(a.Frequency) - frequencyRank(b.Frequency); r != 0 {
			return r
		}
		if a.Ignored != b.Ignored {
			if a.Ignored {
				return 1
			}
			return -1
		}
		if !a.NextExpectedDate.Equal(b.NextExpectedDate) {
			if a.NextExpectedDate.Before(b.NextExpectedDate) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.PatternKey, b.PatternKey)
	})
	return payments
}

func frequencyRank(f Frequency) int {
	if f == Monthly {
		return 0
	}
	return 1
}
