package ports

import (
	"context"
	"net/url"
)

// DocumentFetcherPort retrieves the raw bytes of a WSDL or XSD document.
//
// Implementations must honour ctx cancellation; a missing document is
// reported with errbuilder.CodeNotFound so callers can tell it apart
// from transport failures.
type DocumentFetcherPort interface {
	Fetch(ctx context.Context, location *url.URL) ([]byte, error)
}
