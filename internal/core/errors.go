package core

import "errors"

var (
	// ErrMissingFixture reports that a required data source (CSV file,
	// database table, spreadsheet tab) could not be found or read. It is
	// surfaced to the caller as-is; the absence of matching rows inside a
	// present table is never an error.
	ErrMissingFixture = errors.New("missing fixture")

	// ErrBadMonth reports a month value that could not be normalized to
	// YYYY-MM, or a month handed to a calculator that is unknown to the
	// loaded data.
	ErrBadMonth = errors.New("malformed month")
)
