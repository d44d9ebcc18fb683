// Package errors classifies pipeline failures so the orchestrator can decide
// what a failure aborts: nothing, one record, one criterion, one batch, or the
// whole run.
package errors

import "leaseradar/internal/errors"

// Kind is the failure classification for one pipeline error.
type Kind string

const (
	// KindUpstreamUnavailable covers network or HTTP failures from the
	// listing-search provider. Retried implicitly next cycle.
	KindUpstreamUnavailable Kind = "upstream_unavailable"

	// KindEnrichmentTimeout covers registry lookups that errored or exceeded
	// their per-lookup timeout. The listing stays unenriched this cycle.
	KindEnrichmentTimeout Kind = "enrichment_timeout"

	// KindInvalidRecipient covers malformed phone numbers or email addresses.
	// Terminal for that one notification record, no provider call is made.
	KindInvalidRecipient Kind = "invalid_recipient"

	// KindProviderRejection covers delivery provider errors. Terminal for the
	// record; a fresh notification only comes from a fresh match.
	KindProviderRejection Kind = "provider_rejection"

	// KindPersistence covers storage failures on core writes. Aborts the
	// current batch or criterion only.
	KindPersistence Kind = "persistence"
)

// PipelineError pairs an underlying error with its classification.
type PipelineError struct {
	kind Kind
	err  error
}

// Classify wraps err with a failure kind. Returns nil when err is nil.
func Classify(kind Kind, err error) error {
	if err == nil {
		return nil
	}

	return &PipelineError{kind: kind, err: err}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return string(e.kind) + ": " + e.err.Error()
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	return e.err
}

// Kind returns the failure classification.
func (e *PipelineError) Kind() Kind {
	return e.kind
}

// KindOf extracts the classification from an error tree. Unclassified errors
// report KindPersistence, the most conservative unit to abort.
func KindOf(err error) Kind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind()
	}

	return KindPersistence
}
