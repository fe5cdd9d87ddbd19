package authors

import "errors"

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("authors: not found")

// Reason explains why no author could be resolved.
type Reason string

const (
	// ReasonNoMatch means no directory entry contained the input.
	ReasonNoMatch Reason = "no_match"
	// ReasonTransport means the directory or quote lookup failed in transit.
	ReasonTransport Reason = "transport"
	// ReasonNoQuotes means an author matched but has no quotes.
	ReasonNoQuotes Reason = "no_quotes"
)

// NotFoundError is returned by Resolve when no quote could be produced.
type NotFoundError struct {
	Reason Reason
	// Author is the matched directory name, if any.
	Author string
	Err    error
}

func (e *NotFoundError) Error() string {
	msg := "authors: not found (" + string(e.Reason) + ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Is reports ErrNotFound as a match.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Code exposes the reason as err_code for handler summaries.
func (e *NotFoundError) Code() string { return string(e.Reason) }
