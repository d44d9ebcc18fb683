// Package service defines interfaces for external collaborators consumed by
// the pipeline: the listing-search provider, the building registry and the
// delivery channels.
package service

import "context"

// SearchQuery carries one batch's widened bounds translated for the upstream
// listing-search provider. Nil bounds are omitted from the query.
type SearchQuery struct {
	Areas    string // Normalized comma-joined area list.
	MinPrice *int
	MaxPrice *int
	MinBeds  *int
	MaxBeds  *int
	MinBaths *float64
	NoFee    bool
	Limit    int
	Offset   int
}

// RawListing is one candidate listing as returned by the provider.
type RawListing struct {
	ID           string
	Price        int
	Bedrooms     int
	Bathrooms    float64
	NoFee        bool
	Address      string
	Neighborhood string
	Latitude     float64
	Longitude    float64
	URL          string
}

// SearchPage is one bounded page of candidates plus pagination metadata.
type SearchPage struct {
	Listings   []RawListing
	Count      int
	NextOffset *int
}

// ListingSearcher performs one upstream search call per batch.
type ListingSearcher interface {
	Search(ctx context.Context, query SearchQuery) (*SearchPage, error)
}
