package models

import "errors"

var (
	// ErrInvalidTargetProduct is the only fatal planning error.
	ErrInvalidTargetProduct = errors.New("invalid target product")
	ErrMalformedSnippet     = errors.New("malformed snippet")
	ErrEmptyCandidateSet    = errors.New("empty candidate set")
	ErrNoSources            = errors.New("no lookup sources configured")
)

// Fallback kinds recorded in PlanDiagnostics.Fallbacks.
const (
	FallbackBaselineSeries       = "baseline_series"
	FallbackConservativeForecast = "conservative_forecast"
)
