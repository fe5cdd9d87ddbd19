// Package quotes is a small client for the quotable.io HTTP API.
package quotes

import (
	"errors"
	"fmt"

	"github.com/m3rciful/quotebot/core/netutil"
)

// Quote is a single quotation as returned by the API.
type Quote struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Author is one entry of the author directory.
type Author struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// AuthorPage is one page of the author directory.
type AuthorPage struct {
	Results    []Author `json:"results"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
}

// ErrEmpty is returned when the API answered successfully with no quotes.
var ErrEmpty = errors.New("quotes: empty result")

// TransportError covers everything that prevented a usable answer:
// network failures, timeouts, non-2xx statuses and undecodable bodies.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("quotes %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("quotes %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Code returns a short machine-readable kind used as err_code in logs.
func (e *TransportError) Code() string {
	if kind := netutil.StatusKind(e.Status); kind != "" {
		return kind
	}
	var decodeErr *decodeError
	if errors.As(e.Err, &decodeErr) {
		return "decode"
	}
	return netutil.Classify(e.Err)
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }
