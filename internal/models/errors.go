package models

import "errors"

var (
	// ErrInputShape is returned when the input sheet has fewer than the
	// three required columns. It rejects the whole batch before any row
	// is processed.
	ErrInputShape = errors.New("input sheet must have at least three columns")

	// ErrFetchFailed is returned when the search page could not be
	// retrieved at all (transport error or timeout).
	ErrFetchFailed = errors.New("search page fetch failed")

	// ErrUnexpectedStatus is returned when Avito answers with a
	// non-success status code.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrNotHTML is returned when the response body is not an HTML
	// document and therefore cannot carry listings.
	ErrNotHTML = errors.New("response is not an HTML document")
)
