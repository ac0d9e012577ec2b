package recurring

import (
	"testing"
	"time"
)

func overlayPayment(key string, frequency Frequency, next string) Payment {
	return Payment{
		PatternKey:       key,
		Frequency:        frequency,
		NextExpectedDate: day(next),
	}
}

func TestOverlayOrdering(t *testing.T) {
	payments := []Payment{
		overlayPayment("insur", Yearly, "2025-06-14"),
		overlayPayment("spoti", Monthly, "2024-07-10"),
		overlayPayment("audib", Monthly, "2024-06-28"),
		overlayPayment("netfl", Monthly, "2024-07-01"),
	}

	out := overlay(payments, map[string]bool{"audib": true})

	expected := []string{"netfl", "spoti", "audib", "insur"}
	for i, key := range expected {
		if out[i].PatternKey != key {
			t.Errorf("out[%d] = %q, expected %q", i, out[i].PatternKey, key)
		}
	}
	if !out[2].Ignored {
		t.Error("audib not flagged as ignored")
	}
}

func TestOverlayCaseInsensitive(t *testing.T) {
	payments := []Payment{overlayPayment("netfl", Monthly, "2024-07-01")}

	out := overlay(payments, map[string]bool{"  NETFL ": true})
	if !out[0].Ignored {
		t.Error("ignore keys must match case-insensitively and ignore padding")
	}
}

func TestOverlayFalseEntriesKeepActive(t *testing.T) {
	payments := []Payment{overlayPayment("netfl", Monthly, "2024-07-01")}

	// A preference toggled back to false must not flag the payment.
	out := overlay(payments, map[string]bool{"netfl": false})
	if out[0].Ignored {
		t.Error("a false preference entry flagged the payment as ignored")
	}
}

func TestOverlayDeterministicTieBreak(t *testing.T) {
	sameDay := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	payments := []Payment{
		{PatternKey: "bbb", Frequency: Monthly, NextExpectedDate: sameDay},
		{PatternKey: "aaa", Frequency: Monthly, NextExpectedDate: sameDay},
	}

	out := overlay(payments, nil)
	if out[0].PatternKey != "aaa" || out[1].PatternKey != "bbb" {
		t.Errorf("tie-break order = [%q %q], expected [aaa bbb]", out[0].PatternKey, out[1].PatternKey)
	}
}
