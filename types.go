package main

import (
	"time"

	"github.com/finwatch/recurring-detector/recurring"
)

// RecurringResponse is the body of GET /api/recurring.
type RecurringResponse struct {
	Payments    []recurring.Payment `json:"payments"`
	RefreshedAt time.Time           `json:"refreshed_at"`
}

// IgnoreRequest is the body of POST /api/recurring/ignore.
type IgnoreRequest struct {
	PatternKey string `json:"pattern_key"`
}

// IgnoreResponse reports the toggled preference plus the re-detected list.
type IgnoreResponse struct {
	PatternKey string              `json:"pattern_key"`
	Ignored    bool                `json:"ignored"`
	Payments   []recurring.Payment `json:"payments"`
}

// OpenAILabelResponse represents the JSON response from the OpenAI label cleanup
type OpenAILabelResponse struct {
	Labels map[string]string `json:"Labels"`
}
