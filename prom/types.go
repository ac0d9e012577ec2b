package prom

import (
	"net/http"

	"github.com/finwatch/recurring-detector/results"
	"github.com/prometheus/client_golang/prometheus"
)

type Exporter struct {
	RecurringPayments *prometheus.Desc
	PaymentAmount     *prometheus.Desc
	PaymentNextDue    *prometheus.Desc
	RefreshTime       *prometheus.Desc
	APICalls          *prometheus.Desc
	ProgramErrors     *prometheus.Desc
	cache             *results.Cache
}

var (
	// OpenAICalls counts display-label requests made to OpenAI.
	OpenAICalls float64 = 0
	// ProgramErrorCount counts refresh passes that failed outright.
	ProgramErrorCount float64 = 0
)

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.RecurringPayments
	ch <- e.PaymentAmount
	ch <- e.PaymentNextDue
	ch <- e.RefreshTime
	ch <- e.APICalls
	ch <- e.ProgramErrors
}

func NewExporter(namespace string, cache *results.Cache) *Exporter {
	return &Exporter{
		RecurringPayments: prometheus.NewDesc(
			prometheus.BuildFQName(
				namespace,
				"recurring",
				"payments",
			),
			"Count of detected recurring payments",
			[]string{"frequency", "status"},
			nil,
		),
		PaymentAmount: prometheusPaymentStatsDesc(
			namespace,
			"amount",
			"Average amount of the detected recurring payment",
		),
		PaymentNextDue: prometheusPaymentStatsDesc(
			namespace,
			"next_due",
			"Next expected occurrence of the detected recurring payment (Unix Time / Epoch)",
		),
		RefreshTime: prometheus.NewDesc(
			prometheus.BuildFQName(
				namespace,
				"status",
				"refresh_time",
			),
			"Time the detection snapshot was last refreshed (Unix Time / Epoch)",
			[]string{},
			nil,
		),
		APICalls: prometheus.NewDesc(
			prometheus.BuildFQName(
				namespace,
				"status",
				"api_calls",
			),
			"Count of API calls",
			[]string{"type"},
			nil,
		),
		ProgramErrors: prometheus.NewDesc(
			prometheus.BuildFQName(
				namespace,
				"status",
				"program_errors",
			),
			"Count of failed refresh passes",
			[]string{},
			nil,
		),
		cache: cache,
	}
}

func prometheusPaymentStatsDesc(namespace string, metric string, help string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(
			namespace,
			"recurring",
			metric,
		),
		help,
		[]string{"pattern_key", "display_name", "frequency"},
		nil,
	)
}

// HealthHandler reports liveness for the /health endpoint.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
