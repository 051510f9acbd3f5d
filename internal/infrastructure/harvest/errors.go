package harvest

import "errors"

var (
	// ErrTransport covers network failures, timeouts, non-success
	// statuses, and empty bodies. On a paginated sandbox this is the
	// normal end-of-pagination signal, not a hard error.
	ErrTransport = errors.New("transport failure")

	// ErrParse means the body came back but could not be parsed as a
	// document; the page is skipped and pagination continues.
	ErrParse = errors.New("malformed document")
)
