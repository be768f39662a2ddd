package triage

import "errors"

var (
	// ErrDecision means the oracle failed or returned an unusable selection.
	ErrDecision = errors.New("classification decision failed")

	// ErrDispatch means the selected category has no handler.
	ErrDispatch = errors.New("action dispatch failed")

	// ErrStorage means a testimonial could not be persisted.
	ErrStorage = errors.New("testimonial storage failed")

	// ErrTransport means an alert could not be delivered. Handlers log it
	// and carry on.
	ErrTransport = errors.New("alert transport failed")
)
