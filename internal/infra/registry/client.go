// Package registry implements the building-registry lookup client used for
// rent-stabilization enrichment.
package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"leaseradar/config"
	"leaseradar/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

type client struct {
	baseURL    string
	appToken   string
	tolerance  float64
	httpClient *http.Client
}

// New creates the building-registry client from config.
func New(cfg *config.RegistryConfig) service.BuildingRegistry {
	return &client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		appToken:   cfg.AppToken,
		tolerance:  cfg.CoordTolerance,
		httpClient: &http.Client{Timeout: cfg.LookupTimeout},
	}
}

type buildingPayload struct {
	BBL       string  `json:"bbl"`
	UnitCount int     `json:"unit_count"`
	YearBuilt int     `json:"year_built"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FindNearby looks up registry buildings inside the tolerance bounding box
// around the coordinate.
func (c *client) FindNearby(ctx context.Context, latitude, longitude float64) ([]service.Building, error) {
	bound := searchBound(latitude, longitude, c.tolerance)

	params := url.Values{}
	params.Set("min_lat", formatCoord(bound.Min.Lat()))
	params.Set("max_lat", formatCoord(bound.Max.Lat()))
	params.Set("min_lng", formatCoord(bound.Min.Lon()))
	params.Set("max_lng", formatCoord(bound.Max.Lon()))

	endpoint := c.baseURL + "/buildings?" + params.Encode()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build registry request")
	}
	if c.appToken != "" {
		request.Header.Set("X-App-Token", c.appToken)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "registry request failed")
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, errors.Errorf("registry returned status %d", response.StatusCode)
	}

	var payload []buildingPayload
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode registry response")
	}

	buildings := make([]service.Building, 0, len(payload))
	for _, b := range payload {
		buildings = append(buildings, service.Building{
			BBL:       b.BBL,
			UnitCount: b.UnitCount,
			YearBuilt: b.YearBuilt,
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
		})
	}

	return buildings, nil
}

// searchBound is the tolerance-padded bounding box around one coordinate.
func searchBound(latitude, longitude, tolerance float64) orb.Bound {
	return orb.Point{longitude, latitude}.Bound().Pad(tolerance)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
