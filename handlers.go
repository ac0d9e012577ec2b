package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/finwatch/recurring-detector/httperror"
	"github.com/finwatch/recurring-detector/recurring"
	"github.com/rs/zerolog/log"
)

// RecurringHandler serves the current detection list. An explicit ?currency=
// query re-runs the pure pipeline over the cached transaction snapshot in
// the requested currency without replacing the published snapshot.
func (a *App) RecurringHandler(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		httperror.Send(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	payments, refreshedAt := a.cache.Payments()

	if q := req.URL.Query().Get("currency"); q != "" {
		currency := recurring.Currency(strings.ToUpper(q))
		if currency != recurring.USD && currency != recurring.GBP {
			httperror.Send(w, http.StatusBadRequest, "unsupported currency")
			return
		}
		if currency != a.displayCurrency() {
			var err error
			payments, err = a.detect(a.cache.Transactions(), currency)
			if err != nil {
				httperror.Send(w, http.StatusInternalServerError, "unable to read preferences")
				return
			}
		}
	}

	writeJSON(w, RecurringResponse{Payments: payments, RefreshedAt: refreshedAt})
}

// IgnoreHandler toggles the ignore preference for one pattern key, re-runs
// the pipeline over the cached snapshot, and returns the fresh list. The
// engine itself never writes preferences; this is the external
// toggle-then-rerun cycle.
func (a *App) IgnoreHandler(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		httperror.Send(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body IgnoreRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || strings.TrimSpace(body.PatternKey) == "" {
		httperror.Send(w, http.StatusBadRequest, "pattern_key is required")
		return
	}
	key := recurring.PatternKey(body.PatternKey)

	ignored, err := a.prefs.Toggle(key)
	if err != nil {
		log.Error().Err(err).Str("PatternKey", key).Msg("Could not toggle preference")
		httperror.Send(w, http.StatusInternalServerError, "unable to store preference")
		return
	}
	log.Info().Str("PatternKey", key).Bool("Ignored", ignored).Msg("Toggled ignore preference")

	payments, err := a.detect(a.cache.Transactions(), a.displayCurrency())
	if err != nil {
		httperror.Send(w, http.StatusInternalServerError, "unable to read preferences")
		return
	}
	a.cache.UpdatePayments(payments)

	writeJSON(w, IgnoreResponse{PatternKey: key, Ignored: ignored, Payments: payments})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}
