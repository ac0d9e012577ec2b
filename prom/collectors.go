package prom

import (
	"github.com/finwatch/recurring-detector/feed"
	"github.com/finwatch/recurring-detector/recurring"
	"github.com/prometheus/client_golang/prometheus"
)

func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	e.CollectPayments(ch) // Detection snapshot Collector
	e.CollectSys(ch)      // Program Collector (API calls, etc...)
}

func (e *Exporter) CollectPayments(ch chan<- prometheus.Metric) {
	payments, refreshedAt := e.cache.Payments()

	// Counts per frequency and status //
	////////////////////////////////////
	counts := make(map[[2]string]int)
	for _, p := range payments {
		status := "active"
		if p.Ignored {
			status = "ignored"
		}
		counts[[2]string{string(p.Frequency), status}]++
	}
	for _, frequency := range []recurring.Frequency{recurring.Monthly, recurring.Yearly} {
		for _, status := range []string{"active", "ignored"} {
			ch <- prometheus.MustNewConstMetric(
				e.RecurringPayments,
				prometheus.GaugeValue,
				float64(counts[[2]string{string(frequency), status}]),
				string(frequency), status,
			)
		}
	}

	// Per-payment stats //
	//////////////////////
	for _, p := range payments {
		ch <- prometheus.MustNewConstMetric(
			e.PaymentAmount,
			prometheus.GaugeValue,
			p.AverageAmount.InexactFloat64(),
			p.PatternKey, p.DisplayName, string(p.Frequency),
		)
		ch <- prometheus.MustNewConstMetric(
			e.PaymentNextDue,
			prometheus.GaugeValue,
			float64(p.NextExpectedDate.Unix()),
			p.PatternKey, p.DisplayName, string(p.Frequency),
		)
	}

	if !refreshedAt.IsZero() {
		ch <- prometheus.MustNewConstMetric(
			e.RefreshTime,
			prometheus.GaugeValue,
			float64(refreshedAt.Unix()),
		)
	}
}

// CollectSys Collects Program information (API calls, etc...)
func (e *Exporter) CollectSys(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		e.APICalls,
		prometheus.CounterValue,
		feed.APICalls,
		"feed",
	)
	ch <- prometheus.MustNewConstMetric(
		e.APICalls,
		prometheus.CounterValue,
		OpenAICalls,
		"openai",
	)
	ch <- prometheus.MustNewConstMetric(
		e.ProgramErrors,
		prometheus.CounterValue,
		ProgramErrorCount,
	)
}
