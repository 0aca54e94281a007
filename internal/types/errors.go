package types

import "errors"

// Errors that make the feature unsatisfiable propagate to the caller.
// Provider failures that only reduce richness of the output (weather, AI
// narrative) are absorbed by the synthesis layer and never surface here.
var (
	// ErrInvalidDateRange means the request's start date is not strictly
	// before its end date. Caller input error, not retryable.
	ErrInvalidDateRange = errors.New("invalid date range: start date must be before end date")

	// ErrGeocodingFailed means the destination could not be resolved to
	// coordinates. Surfaced because per-day weather depends on them.
	ErrGeocodingFailed = errors.New("geocoding failed")

	// ErrRateLimited is provider backpressure. Surfaced with retry guidance
	// instead of degrading, since an immediate retry is likely to succeed.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrCancelled is a caller-initiated abort. No partial result is built.
	ErrCancelled = errors.New("request cancelled")

	// Text-generation provider failures. These never leave the synthesis
	// layer; they select the fallback path instead.
	ErrUnauthorized      = errors.New("provider rejected credentials")
	ErrProviderTimeout   = errors.New("provider timed out")
	ErrMalformedResponse = errors.New("provider returned malformed response")
)
