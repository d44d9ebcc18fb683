package service

import "context"

// Building is one record from the geocoded building registry.
type Building struct {
	BBL       string // Borough-block-lot identifier or provider equivalent.
	UnitCount int
	YearBuilt int // Zero when the registry has no year on file.
	Latitude  float64
	Longitude float64
}

// BuildingRegistry looks up buildings near a coordinate, used to derive a
// listing's rent-stabilization likelihood. Lookups are best-effort; callers
// bound them with a timeout and treat failures as "unknown this cycle".
type BuildingRegistry interface {
	FindNearby(ctx context.Context, latitude, longitude float64) ([]Building, error)
}
