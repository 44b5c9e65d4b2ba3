package discovery

import (
	"errors"
	"fmt"
)

// Discovery errors.
var (
	// ErrSourceUnavailable marks a fetch that failed (timeout, non-2xx,
	// DNS or connection error). Recorded per source, never fatal.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrExtractionEmpty marks a fetched page that yielded no links and no
	// headings. It is recorded on the SourceReport, not returned.
	ErrExtractionEmpty = errors.New("extraction yielded no links or headings")

	// ErrEmptyQuery is returned by Discover for a blank query.
	ErrEmptyQuery = errors.New("query is required")

	// ErrInvalidCatalog is returned when catalog descriptors are inconsistent.
	ErrInvalidCatalog = errors.New("invalid source catalog")
)

// HTTPStatusError is returned by getters for non-2xx responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}
