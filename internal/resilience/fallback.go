// Package resilience provides ordered fallback sequencing for operations
// that can be served by more than one candidate, such as fetching a bill
// document from either chamber when the originating chamber is unknown.
//
// A sequence holds no state across runs. Every invocation is independent,
// so there is nothing to remember between calls and a Seq is safe for
// concurrent use.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrAllFailed is returned when every candidate in a fallback sequence
// fails. Callers can match it with errors.Is.
var ErrAllFailed = errors.New("all candidates failed")

// Attempt records the outcome of one failed candidate in a fallback run.
// Successful candidates never appear: a run stops at the first success.
type Attempt[C any] struct {
	Candidate C
	Err       error
}

// Seq tries candidates of type C in a fixed order until one succeeds.
type Seq[C any] struct {
	name       string
	candidates []C
}

// NewSeq creates a fallback sequence over the given candidates, tried in
// the order supplied. The name appears in log records only.
func NewSeq[C any](name string, candidates ...C) *Seq[C] {
	return &Seq[C]{name: name, candidates: candidates}
}

// Try runs fn against each candidate of s in order and returns the first
// successful value along with the failed attempts that preceded it. On
// total failure it returns the last candidate's value, every attempt, and
// an error wrapping ErrAllFailed. The last value is returned because in
// this domain a candidate's payload can itself describe its failure, and
// the caller surfaces that payload verbatim.
//
// Package-level function because Go does not support method-level type
// parameters.
func Try[C any, R any](ctx context.Context, s *Seq[C], fn func(context.Context, C) (R, error)) (R, []Attempt[C], error) {
	var last R
	attempts := make([]Attempt[C], 0, len(s.candidates))
	for _, c := range s.candidates {
		if err := ctx.Err(); err != nil {
			return last, attempts, err
		}
		v, err := fn(ctx, c)
		if err == nil {
			return v, attempts, nil
		}
		last = v
		attempts = append(attempts, Attempt[C]{Candidate: c, Err: err})
		slog.Warn("candidate failed, trying next",
			"seq", s.name,
			"candidate", fmt.Sprintf("%v", c),
			"error", err)
	}
	var lastErr error
	if len(attempts) > 0 {
		lastErr = attempts[len(attempts)-1].Err
	}
	return last, attempts, fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}
