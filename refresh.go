package main

import (
	"strings"
	"time"

	"github.com/finwatch/recurring-detector/config"
	"github.com/finwatch/recurring-detector/duration"
	"github.com/finwatch/recurring-detector/feed"
	"github.com/finwatch/recurring-detector/prefstore"
	"github.com/finwatch/recurring-detector/prom"
	"github.com/finwatch/recurring-detector/recurring"
	"github.com/finwatch/recurring-detector/results"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
)

// App wires the external collaborators around the pure detection engine:
// the feed client, the preference store, config, the optional OpenAI client
// for label cleanup, and the published snapshot.
type App struct {
	feed   *feed.Feed
	prefs  *prefstore.Store
	config *config.MasterConfig
	oai    *openai.Client
	cache  *results.Cache
}

func NewApp(fd *feed.Feed, prefs *prefstore.Store, cfg *config.MasterConfig, oai *openai.Client, cache *results.Cache) *App {
	return &App{
		feed:   fd,
		prefs:  prefs,
		config: cfg,
		oai:    oai,
		cache:  cache,
	}
}

// startRefresh runs one full refresh pass: pull the feed window, convert the
// wire records, run the detection pipeline, and publish the new snapshot.
func (a *App) startRefresh() {
	log.Debug().Msg("Starting feed refresh")
	// Duration Configuration - How far back to pull transactions
	lookback, err := duration.ParseDuration(cli.FeedLookbackDuration)
	if err != nil {
		log.Fatal().Err(err).Msgf("Unable to parse duration")
	}

	a.feed.SetFilter(feed.Filter{
		StartDate: time.Now().Add(-lookback - (24 * time.Hour)).Unix(),
	})

	log.Debug().Msgf("Retrieving transaction feed data")
	resp, err := a.feed.Transactions()
	if err != nil {
		prom.ProgramErrorCount++
		log.Error().Err(err).Msg("Could not fetch the transaction feed.")
		return
	}

	// There are errors in the feed response (actions needed upstream to
	// restore proper communication)
	for _, feedErr := range resp.Errors {
		log.Error().Msgf("%s", feedErr)
	}

	txns := convertTransactions(resp.Transactions)

	payments, err := a.detect(txns, a.displayCurrency())
	if err != nil {
		prom.ProgramErrorCount++
		log.Error().Err(err).Msg("Could not read preferences for detection")
		return
	}

	a.cache.Publish(txns, payments, time.Now())

	log.Info().
		Int("Transactions", len(txns)).
		Int("Detections", len(payments)).
		Msg("🔁 Refreshed recurring payment snapshot")
}

// detect loads the current ignore set, runs the pure engine over the given
// snapshot, and applies display-label post-processing.
func (a *App) detect(txns []recurring.Transaction, currency recurring.Currency) ([]recurring.Payment, error) {
	ignored, err := a.prefs.IgnoredKeys()
	if err != nil {
		return nil, err
	}

	payments := recurring.Detect(txns, recurring.Options{
		Today:              time.Now(),
		Currency:           currency,
		FxRate:             a.fxRate(),
		ExcludedCategories: a.config.ExclusionSet(),
		Ignored:            ignored,
	})

	return a.ApplyDisplayLabels(payments), nil
}

// displayCurrency resolves the target currency: config file first, CLI/env
// default second.
func (a *App) displayCurrency() recurring.Currency {
	if a.config.Display.Currency != "" {
		return recurring.Currency(strings.ToUpper(a.config.Display.Currency))
	}
	return recurring.Currency(cli.DisplayCurrency)
}

// fxRate resolves the GBP-per-USD rate: config file first, CLI/env default
// second.
func (a *App) fxRate() decimal.Decimal {
	if a.config.Display.FxRateGBPPerUSD > 0 {
		return decimal.NewFromFloat(a.config.Display.FxRateGBPPerUSD)
	}
	return decimal.NewFromFloat(cli.FxRateGBPPerUSD)
}

// convertTransactions maps feed wire records into engine transactions.
// Records whose date does not parse are dropped here, the earliest filtering
// stage, rather than aborting the run.
func convertTransactions(wire []feed.Transaction) []recurring.Transaction {
	txns := make([]recurring.Transaction, 0, len(wire))
	for _, t := range wire {
		date, err := time.Parse(time.DateOnly, t.Date)
		if err != nil {
			log.Warn().Str("ID", t.ID).Str("Date", t.Date).Msg("Dropping transaction with unparseable date")
			continue
		}
		txns = append(txns, recurring.Transaction{
			Date:         date,
			Category:     t.Category,
			Counterparty: t.Counterparty,
			AmountUSD:    t.AmountUSD,
			AmountGBP:    t.AmountGBP,
		})
	}
	return txns
}
