package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/httputil"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// DefaultBaseURL is the default catalog service endpoint.
const DefaultBaseURL = "https://catalog.skao.example/api/v1"

// requestTimeout bounds a single catalog request; retries get a fresh budget.
const requestTimeout = 30 * time.Second

// Client fetches station catalogs from the array-configuration service.
// Responses are cached (keyed by configuration) and transient failures are
// retried with exponential backoff.
type Client struct {
	base    string
	http    *http.Client
	cache   *httputil.Cache
	refresh bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (used in tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRefresh bypasses the response cache, always fetching fresh data.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// NewClient creates a catalog client for the given base URL.
// If base is empty, DefaultBaseURL is used. The cache may be nil to disable
// response caching.
func NewClient(base string, cache *httputil.Cache, opts ...Option) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		base:  base,
		http:  &http.Client{Timeout: requestTimeout},
		cache: cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the catalog endpoint this client queries.
func (c *Client) BaseURL() string { return c.base }

// subarrayResponse is the catalog's wire format for a configuration lookup.
type subarrayResponse struct {
	Center   telescope.Geodetic `json:"center"`
	Stations []stationRecord    `json:"stations"`
}

type stationRecord struct {
	Label string  `json:"label"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
	Up    float64 `json:"up"`
}

// Array fetches the station set for a telescope configuration.
// A missing configuration is a NOT_FOUND error; 5xx responses and transport
// failures are retried before being surfaced as NETWORK_ERROR.
func (c *Client) Array(ctx context.Context, t telescope.Telescope) (*telescope.Array, error) {
	var resp subarrayResponse
	key := t.CatalogName()

	if c.cache != nil && !c.refresh {
		if ok, _ := c.cache.Get(key, &resp); ok {
			return c.toArray(t, &resp)
		}
	}

	endpoint := fmt.Sprintf("%s/subarray/%s", c.base, url.PathEscape(key))
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.fetch(ctx, endpoint, &resp)
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(key, &resp)
	}
	return c.toArray(t, &resp)
}

func (c *Client) fetch(ctx context.Context, endpoint string, v *subarrayResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "catalog request failed")}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "catalog has no subarray %s", endpoint)
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "catalog returned status %d", resp.StatusCode)}
	default:
		return errors.New(errors.ErrCodeNetwork, "catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidData, err, "decode catalog response")
	}
	return nil
}

// toArray converts the wire format into the domain type, validating station
// labels on the way in.
func (c *Client) toArray(t telescope.Telescope, resp *subarrayResponse) (*telescope.Array, error) {
	arr := &telescope.Array{
		Telescope: t,
		Center:    resp.Center,
		Stations:  make([]telescope.Station, 0, len(resp.Stations)),
	}
	for _, rec := range resp.Stations {
		if err := errors.ValidateStationLabel(rec.Label); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "catalog response for %s", t)
		}
		arr.Stations = append(arr.Stations, telescope.Station{
			Label: rec.Label,
			East:  rec.East,
			North: rec.North,
			Up:    rec.Up,
		})
	}
	if len(arr.Stations) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidData, "catalog returned no stations for %s", t)
	}
	return arr, nil
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)
