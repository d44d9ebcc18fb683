// Package listingsearch implements the HTTP client for the upstream
// listing-search provider.
package listingsearch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"leaseradar/config"
	"leaseradar/internal/domain/service"

	"github.com/pkg/errors"
)

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates the listing-search client from config.
func New(cfg *config.UpstreamConfig, logger *slog.Logger) service.ListingSearcher {
	return &client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type searchResponse struct {
	Listings   []rawListingPayload `json:"listings"`
	Count      int                 `json:"count"`
	NextOffset *int                `json:"next_offset"`
}

type rawListingPayload struct {
	ID           string  `json:"id"`
	Price        int     `json:"price"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	NoFee        bool    `json:"no_fee"`
	Address      string  `json:"address"`
	Neighborhood string  `json:"neighborhood"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	URL          string  `json:"url"`
}

// Search performs one upstream search call. Nil bounds are omitted from the
// query string so the provider treats them as unbounded.
func (c *client) Search(ctx context.Context, query service.SearchQuery) (*service.SearchPage, error) {
	endpoint := c.baseURL + "/v1/listings/search?" + buildQueryParams(query).Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build search request")
	}
	if c.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	defer response.Body.Close()

	if c.logger != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "Upstream search complete",
			slog.String("areas", query.Areas),
			slog.Int("status", response.StatusCode),
			slog.Duration("duration", time.Since(start)),
		)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, errors.Errorf("search returned status %d", response.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response")
	}

	page := &service.SearchPage{
		Listings:   make([]service.RawListing, 0, len(payload.Listings)),
		Count:      payload.Count,
		NextOffset: payload.NextOffset,
	}
	for _, raw := range payload.Listings {
		page.Listings = append(page.Listings, service.RawListing(raw))
	}

	return page, nil
}

func buildQueryParams(query service.SearchQuery) url.Values {
	params := url.Values{}
	params.Set("areas", query.Areas)
	if query.MinPrice != nil {
		params.Set("min_price", strconv.Itoa(*query.MinPrice))
	}
	if query.MaxPrice != nil {
		params.Set("max_price", strconv.Itoa(*query.MaxPrice))
	}
	if query.MinBeds != nil {
		params.Set("min_beds", strconv.Itoa(*query.MinBeds))
	}
	if query.MaxBeds != nil {
		params.Set("max_beds", strconv.Itoa(*query.MaxBeds))
	}
	if query.MinBaths != nil {
		params.Set("min_baths", strconv.FormatFloat(*query.MinBaths, 'f', -1, 64))
	}
	if query.NoFee {
		params.Set("no_fee", "true")
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}

	return params
}
