package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/alecthomas/kong"
	"github.com/finwatch/recurring-detector/config"
	"github.com/finwatch/recurring-detector/feed"
	"github.com/finwatch/recurring-detector/prefstore"
	"github.com/finwatch/recurring-detector/prom"
	"github.com/finwatch/recurring-detector/results"
	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"github.com/prometheus/exporter-toolkit/web"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const AppName = "recurring-detector"
const AppDesc = "Go-based service that watches a household transaction feed and surfaces recurring payments (subscriptions, annual commitments). It periodically pulls the feed, runs the detection pipeline, and serves the ranked results over HTTP."

// MetricNamespace is the Prometheus namespace for all exported metrics.
const MetricNamespace = "recurring_detector"

var cli struct {
	MetricsPath          string  `env:"EXPORTER_METRICS_PATH" help:"${env} - Path under which to expose metrics" default:"/metrics"`
	ConfigPath           string  `env:"CONFIG_PATH" help:"${env} - Path to config file" default:"./config.yml"`
	ListenAddress        string  `env:"EXPORTER_LISTEN_ADDRESS" help:"${env} - Address to listen on for web interface and telemetry" default:"9718"`
	FeedAccessURL        string  `env:"FEED_ACCESS_URL" help:"${env} - Transaction feed Access URL" required:""`
	FeedLookbackDuration string  `env:"FEED_LOOKBACK_DURATION" help:"${env} - How far back to pull transaction data" default:"365d"`
	PreferenceDBPath     string  `env:"PREFERENCE_DB_PATH" help:"${env} - Path to the ignore-preference database" default:"./preferences.db"`
	DisplayCurrency      string  `env:"DISPLAY_CURRENCY" help:"${env} - Display currency" enum:"USD,GBP" default:"USD"`
	FxRateGBPPerUSD      float64 `env:"FX_RATE_GBP_PER_USD" help:"${env} - GBP per 1 USD, used when a transaction has no amount in the display currency" default:"0.79"`
	OpenAIAPIKey         string  `env:"OPENAI_API_KEY" help:"${env} - API Key for OpenAI display-label cleanup. If none is provided, OpenAI support is disabled"`
	OpenAIModel          string  `env:"OPENAI_MODEL" help:"${env} - OpenAI Model type. Default is gpt-3.5-turbo-instruct" default:"gpt-3.5-turbo-instruct"`
	RefreshTime          uint16  `env:"REFRESH_TIME" help:"${env} - Time in minutes for refresh (Default 1440 / 1 day)" default:"1440"`
	EnablePrometheus     bool    `env:"ENABLE_PROMETHEUS" help:"${env} - Enable Prometheus metrics" default:"true"`
}

func main() {
	// Variable Setup //
	///////////////////
	kong.Parse(&cli,
		kong.Name(AppName),
		kong.Description(AppDesc),
	)
	log.Logger = log.Output(os.Stderr).With().Caller().Logger() // Logger
	var oai *openai.Client                                      // OpenAI
	fd := feed.New(cli.FeedAccessURL)                           // Transaction feed
	cfg := config.InitConfig(cli.ConfigPath)                    // Config

	prefs, err := prefstore.New(cli.PreferenceDBPath) // Preference store
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to open preference database")
	}
	defer prefs.Close()

	// OpenAI Setup //
	/////////////////
	if cli.OpenAIAPIKey != "" {
		oai = openai.NewClient(cli.OpenAIAPIKey)
	}

	cache := results.NewCache()
	app := NewApp(fd, prefs, cfg, oai, cache)

	// Start //
	///////////
	log.Logger.Info().
		Str("version", version.Info()).
		Msg("Starting " + AppName)

	// Create a channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	// Refresher
	ticker := time.NewTicker(time.Duration(cli.RefreshTime) * time.Minute)
	quit := make(chan struct{})

	// Immediately start a refresh of the data in the background
	go app.startRefresh()

	// No Prometheus Support, refresh only
	if !cli.EnablePrometheus {
		log.Info().Msg("Prometheus metrics are disabled. Refresh only.")
		for {
			select {
			case <-ticker.C:
				app.startRefresh()
			case <-quit:
				ticker.Stop()
				return
			case sig := <-sigChan:
				log.Info().Msgf("Received signal %s. Exiting...", sig)
				ticker.Stop()
				return
			}
		}
	}

	// Prometheus Support. Refresh and Metrics
	go func() {
		for {
			select {
			case <-ticker.C:
				app.startRefresh()
			case <-quit:
				ticker.Stop()
				return
			}
		}
	}()

	// Metric Registration
	prometheus.MustRegister(
		versioncollector.NewCollector(MetricNamespace),
		prom.NewExporter(MetricNamespace, cache),
	)

	// HTTP Server
	http.Handle(cli.MetricsPath, promhttp.Handler())
	http.HandleFunc("/api/recurring", app.RecurringHandler)
	http.HandleFunc("/api/recurring/ignore", app.IgnoreHandler)
	http.HandleFunc("/health", prom.HealthHandler)
	if cli.MetricsPath != "/" && cli.MetricsPath != "" {
		landingConfig := web.LandingConfig{
			Name:        AppName,
			Description: AppDesc,
			Version:     version.Print(AppName),
			Links: []web.LandingLinks{
				{
					Address: cli.MetricsPath,
					Text:    "Metrics",
				},
				{
					Address: "/api/recurring",
					Text:    "Recurring Payments",
				},
				{
					Address: "/health",
					Text:    "Health",
				},
			},
		}
		landingPage, err := web.NewLandingPage(landingConfig)

		if err != nil {
			log.Fatal().Err(err).Msg("")
		}
		http.Handle("/", landingPage)
	}

	log.Info().Msgf("Starting HTTP server on listen address :%s and metric path %s", cli.ListenAddress, cli.MetricsPath)

	server := &http.Server{
		Addr:         ":" + cli.ListenAddress,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Listen and serve
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Error starting HTTP server")
		}
	}()

	// Handle shutdown
	<-sigChan
	log.Info().Msg("Shutdown Signal Received")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	log.Info().Msg("Shutting down HTTP server...")
	_ = server.Shutdown(ctx)
	log.Info().Msg("Stopping Refresh ticker")
	ticker.Stop()
	log.Info().Msg("Shutdown Complete; Exiting...")
}
