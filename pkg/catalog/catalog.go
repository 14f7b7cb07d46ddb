// Package catalog provides access to the array-configuration catalog: the
// external service (or local file) that knows which stations belong to each
// telescope configuration and where they stand.
//
// Two providers are available:
//   - [Client] queries the catalog service over HTTP, with response caching
//     and retry on transient failures.
//   - [FileProvider] reads a local array-coordinates file, for offline use.
package catalog

import (
	"context"

	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// Provider supplies the station set of a telescope configuration.
type Provider interface {
	// Array returns the stations belonging to the given configuration, in
	// catalog order, along with the array center in WGS84 coordinates.
	Array(ctx context.Context, t telescope.Telescope) (*telescope.Array, error)
}
