package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"leaseradar/config"
	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/repository"
	"leaseradar/internal/domain/service"
	"leaseradar/internal/usecase"

	gocache "github.com/patrickmn/go-cache"
)

// stabilizationResult is one derived enrichment outcome, cached per building
// coordinate so nearby listings in the same building share a single registry
// lookup.
type stabilizationResult struct {
	Status      entity.StabilizationStatus
	Probability float64
}

// DeriveStabilization maps registry building records onto a stabilization
// status and probability. The thresholds are a fixed policy table: buildings
// of six or more units built before 1974 fall under the stabilization law
// (confirmed), 1974-1984 buildings may be covered depending on program
// participation (probable), smaller buildings are generally exempt.
func DeriveStabilization(buildings []service.Building) stabilizationResult {
	if len(buildings) == 0 {
		return stabilizationResult{Status: entity.StabilizationUnknown, Probability: 0}
	}

	// The registry may return several nearby buildings; judge by the best
	// candidate, the one with the most units.
	best := buildings[0]
	for _, b := range buildings[1:] {
		if b.UnitCount > best.UnitCount {
			best = b
		}
	}

	switch {
	case best.UnitCount >= 6 && best.YearBuilt > 0 && best.YearBuilt < 1974:
		return stabilizationResult{Status: entity.StabilizationConfirmed, Probability: 0.95}
	case best.UnitCount >= 6 && best.YearBuilt >= 1974 && best.YearBuilt <= 1984:
		return stabilizationResult{Status: entity.StabilizationProbable, Probability: 0.70}
	case best.UnitCount >= 6 && best.YearBuilt == 0:
		return stabilizationResult{Status: entity.StabilizationUnknown, Probability: 0}
	case best.UnitCount < 6:
		return stabilizationResult{Status: entity.StabilizationUnlikely, Probability: 0.10}
	default:
		return stabilizationResult{Status: entity.StabilizationUnlikely, Probability: 0.15}
	}
}

const stabilizationSource = "building-registry"

type enrichmentService struct {
	logger      *slog.Logger
	registry    service.BuildingRegistry
	listingRepo repository.ListingRepository
	cache       *gocache.Cache

	lookupTimeout time.Duration
	recheckAfter  time.Duration
}

// NewEnrichmentService creates the rent-stabilization enrichment stage.
func NewEnrichmentService(
	logger *slog.Logger,
	registry service.BuildingRegistry,
	listingRepo repository.ListingRepository,
	cfg *config.Config,
) usecase.EnrichmentUsecase {
	return &enrichmentService{
		logger:        logger,
		registry:      registry,
		listingRepo:   listingRepo,
		cache:         gocache.New(cfg.Registry.CacheTTL, 2*cfg.Registry.CacheTTL),
		lookupTimeout: cfg.Registry.LookupTimeout,
		recheckAfter:  cfg.Registry.RecheckAfter,
	}
}

// EnrichListings checks every listing whose enrichment data is missing or
// stale. Lookups are bounded by the per-lookup timeout; a failed lookup
// leaves its listing unchecked for this cycle and is retried next cycle.
func (s *enrichmentService) EnrichListings(ctx context.Context, listings []*entity.Listing) int {
	now := time.Now()
	enriched := 0

	for _, listing := range listings {
		if !listing.NeedsStabilizationCheck(now, s.recheckAfter) {
			continue
		}

		result, ok := s.lookup(ctx, listing)
		if !ok {
			continue
		}

		if err := s.listingRepo.UpdateStabilization(ctx, listing.ID, result.Status, result.Probability, stabilizationSource, now); err != nil {
			s.logger.Warn("failed to persist stabilization result",
				slog.String("listing_id", listing.ID.String()),
				slog.Any("error", err),
			)

			continue
		}

		listing.StabilizationStatus = result.Status
		listing.StabilizationProbability = result.Probability
		listing.StabilizationSource = stabilizationSource
		checkedAt := now
		listing.StabilizationCheckedAt = &checkedAt
		enriched++
	}

	return enriched
}

func (s *enrichmentService) lookup(ctx context.Context, listing *entity.Listing) (stabilizationResult, bool) {
	key := coordinateKey(listing.Latitude, listing.Longitude)
	if cached, found := s.cache.Get(key); found {
		return cached.(stabilizationResult), true
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	buildings, err := s.registry.FindNearby(lookupCtx, listing.Latitude, listing.Longitude)
	if err != nil {
		s.logger.Debug("registry lookup failed, listing stays unenriched",
			slog.String("listing_id", listing.ID.String()),
			slog.Any("error", err),
		)

		return stabilizationResult{}, false
	}

	result := DeriveStabilization(buildings)
	s.cache.SetDefault(key, result)

	return result, true
}

// coordinateKey rounds to four decimal places, roughly building precision,
// so every unit in one building shares a cache entry.
func coordinateKey(latitude, longitude float64) string {
	return fmt.Sprintf("%.4f,%.4f", latitude, longitude)
}
