// Package dkerr defines the sentinel error kinds shared across the
// partitioner core, following the error-channel-not-exceptions idiom of
// the actor system this module grew out of.
package dkerr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownGlobal is returned when a global vertex ID is neither
	// owned by the local rank nor present in its ghost directory.
	ErrUnknownGlobal = errors.New("dkaminpar: unknown global vertex id")

	// ErrInconsistentDistribution is returned when the distribution
	// vectors gathered from all ranks do not agree.
	ErrInconsistentDistribution = errors.New("dkaminpar: inconsistent distribution vector across ranks")

	// ErrAllocationExhausted signals a fatal, process-local allocation
	// failure. No recovery is attempted.
	ErrAllocationExhausted = errors.New("dkaminpar: allocation exhausted")

	// ErrCommunicationFailure is surfaced by the communication
	// substrate (pkg/comm) when a collective or point-to-point
	// operation cannot complete.
	ErrCommunicationFailure = errors.New("dkaminpar: communication failure")

	// ErrAssertionFailure signals a broken invariant in caller-supplied
	// data. Assert panics with it in checked builds (build tag
	// dkassert); a few explicit checks also return it in every build
	// (a clustering of the wrong length passed to contraction.Contract,
	// and graph.Graph.SetGhostNodeWeight called after Publish).
	ErrAssertionFailure = errors.New("dkaminpar: assertion failure")
)

// WithDetail wraps a sentinel error with a formatted detail message
// while preserving errors.Is compatibility.
func WithDetail(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
