package impl

import (
	"context"
	"log/slog"
	"time"

	"leaseradar/config"
	"leaseradar/internal/domain/entity"
	domainerrors "leaseradar/internal/domain/errors"
	"leaseradar/internal/domain/repository"
	"leaseradar/internal/domain/service"
	"leaseradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type orchestratorService struct {
	logger *slog.Logger

	criterionRepo repository.CriterionRepository
	batchRepo     repository.BatchRepository
	listingRepo   repository.ListingRepository
	userRepo      repository.UserRepository
	seenRepo      repository.SeenRepository
	runLogRepo    repository.RunLogRepository

	searcher service.ListingSearcher

	batches    usecase.BatchUsecase
	gate       *ScheduleGate
	enrichment usecase.EnrichmentUsecase
	fanout     usecase.FanoutUsecase
	dispatch   usecase.DispatchUsecase

	pageLimit        int
	listingRetention time.Duration
	now              func() time.Time
}

// NewOrchestrator creates the cycle orchestrator.
func NewOrchestrator(
	logger *slog.Logger,
	criterionRepo repository.CriterionRepository,
	batchRepo repository.BatchRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	seenRepo repository.SeenRepository,
	runLogRepo repository.RunLogRepository,
	searcher service.ListingSearcher,
	batches usecase.BatchUsecase,
	gate *ScheduleGate,
	enrichment usecase.EnrichmentUsecase,
	fanout usecase.FanoutUsecase,
	dispatch usecase.DispatchUsecase,
	cfg *config.Config,
) usecase.Orchestrator {
	pageLimit := 100
	if cfg.Upstream != nil && cfg.Upstream.PageLimit > 0 {
		pageLimit = cfg.Upstream.PageLimit
	}

	return &orchestratorService{
		logger:           logger,
		criterionRepo:    criterionRepo,
		batchRepo:        batchRepo,
		listingRepo:      listingRepo,
		userRepo:         userRepo,
		seenRepo:         seenRepo,
		runLogRepo:       runLogRepo,
		searcher:         searcher,
		batches:          batches,
		gate:             gate,
		enrichment:       enrichment,
		fanout:           fanout,
		dispatch:         dispatch,
		pageLimit:        pageLimit,
		listingRetention: time.Duration(cfg.Retention.ListingDays) * 24 * time.Hour,
		now:              time.Now,
	}
}

// RunCycle executes one pipeline invocation. Per-batch and per-criterion
// failures are caught here, classified, logged with their unit's ID and
// counted; they never abort sibling units. Only run-log bookkeeping failures
// are returned as errors.
func (s *orchestratorService) RunCycle(ctx context.Context) (*entity.RunLog, error) {
	run := &entity.RunLog{
		ID:        uuid.New(),
		Status:    entity.RunStarted,
		StartedAt: s.now(),
	}
	if err := s.runLogRepo.Create(ctx, run); err != nil {
		return nil, errors.Wrap(err, "failed to open run log")
	}

	if _, err := s.batches.Reconcile(ctx); err != nil {
		// Stored batches from the previous reconciliation still cover their
		// members, so the cycle continues on them.
		s.logger.Error("batch reconciliation failed, running on stored batches",
			slog.String("kind", string(domainerrors.KindOf(err))),
			slog.Any("error", err),
		)
	}

	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list batches, closing run as failed", slog.Any("error", err))

		return s.failRun(ctx, run, errors.Wrap(err, "failed to list batches"))
	}

	contacts := make(map[uuid.UUID]*entity.UserContact)
	for _, batch := range batches {
		s.processBatch(ctx, run, batch, contacts)
	}

	s.drainDispatchers(ctx)
	s.sweepStaleListings(ctx)

	run.Status = entity.RunCompleted
	finishedAt := s.now()
	run.FinishedAt = &finishedAt
	if err := s.runLogRepo.Finish(ctx, run); err != nil {
		return nil, errors.Wrap(err, "failed to close run log")
	}

	s.logger.Info("cycle complete",
		slog.Int("criteria_checked", run.CriteriaChecked),
		slog.Int("batches_fetched", run.BatchesFetched),
		slog.Int("listings_found", run.ListingsFound),
		slog.Int("notifications_created", run.NotificationsCreated),
	)

	return run, nil
}

// processBatch runs fetch, upsert, enrichment and the per-criterion pass for
// one batch. Any failure is contained to this batch.
func (s *orchestratorService) processBatch(ctx context.Context, run *entity.RunLog, batch *entity.Batch, contacts map[uuid.UUID]*entity.UserContact) {
	members, err := s.criterionRepo.ListByBatch(ctx, batch.ID)
	if err != nil {
		s.logger.Error("failed to list batch members",
			slog.String("batch_id", batch.ID.String()),
			slog.Any("error", err),
		)

		return
	}

	now := s.now()
	due := make([]*entity.Criterion, 0, len(members))
	for _, criterion := range members {
		tier := s.gate.ResolveEffectiveTier(criterion, s.planFor(ctx, contacts, criterion.OwnerID))
		if s.gate.ShouldCheck(criterion, tier, now) {
			due = append(due, criterion)
		}
	}
	if len(due) == 0 {
		return
	}

	page, err := s.searcher.Search(ctx, searchQueryForBatch(batch, s.pageLimit))
	if err != nil {
		err = domainerrors.Classify(domainerrors.KindUpstreamUnavailable, err)
		s.logger.Error("upstream fetch failed, skipping batch",
			slog.String("batch_id", batch.ID.String()),
			slog.String("kind", string(domainerrors.KindOf(err))),
			slog.Any("error", err),
		)

		return
	}
	run.BatchesFetched++
	run.ListingsFound += len(page.Listings)

	listings, err := s.listingRepo.UpsertBatch(ctx, rawToListings(page.Listings), now)
	if err != nil {
		s.logger.Error("listing upsert failed, skipping batch",
			slog.String("batch_id", batch.ID.String()),
			slog.Any("error", err),
		)

		return
	}

	s.enrichment.EnrichListings(ctx, listings)

	if err := s.batchRepo.UpdateLastFetched(ctx, batch.ID, now); err != nil {
		s.logger.Warn("failed to record batch fetch time",
			slog.String("batch_id", batch.ID.String()),
			slog.Any("error", err),
		)
	}

	for _, criterion := range due {
		s.processCriterion(ctx, run, criterion, contacts[criterion.OwnerID], listings)
	}
}

// processCriterion narrows the batch's listings to one criterion, dedups,
// fans out, and only then marks seen and advances the check timestamp. The
// ordering matters: a failure at any step leaves lastChecked untouched so
// the criterion is retried next cycle.
func (s *orchestratorService) processCriterion(
	ctx context.Context,
	run *entity.RunLog,
	criterion *entity.Criterion,
	contact *entity.UserContact,
	listings []*entity.Listing,
) {
	matched := make([]*entity.Listing, 0, len(listings))
	matchedIDs := make([]uuid.UUID, 0, len(listings))
	for _, listing := range listings {
		if MatchesCriterion(listing, criterion) {
			matched = append(matched, listing)
			matchedIDs = append(matchedIDs, listing.ID)
		}
	}

	if len(matched) == 0 {
		s.markChecked(ctx, run, criterion)

		return
	}

	newIDs, err := s.seenRepo.FilterNew(ctx, criterion.OwnerID, criterion.ID, matchedIDs)
	if err != nil {
		s.logger.Error("dedup lookup failed, criterion retried next cycle",
			slog.String("criterion_id", criterion.ID.String()),
			slog.Any("error", err),
		)

		return
	}
	if len(newIDs) == 0 {
		s.markChecked(ctx, run, criterion)

		return
	}

	newSet := make(map[uuid.UUID]struct{}, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = struct{}{}
	}
	fresh := make([]*entity.Listing, 0, len(newIDs))
	for _, listing := range matched {
		if _, ok := newSet[listing.ID]; ok {
			fresh = append(fresh, listing)
		}
	}

	outcome, err := s.fanout.NotifyCriterion(ctx, criterion, contact, fresh)
	if err != nil {
		s.logger.Error("fanout failed, criterion retried next cycle",
			slog.String("criterion_id", criterion.ID.String()),
			slog.Any("error", err),
		)

		return
	}
	if outcome.SkippedNoChannels {
		// Nothing was delivered and nothing was recorded; the criterion is
		// re-evaluated next window rather than silently marked seen.
		return
	}
	run.NotificationsCreated += outcome.RecordsCreated

	if err := s.seenRepo.MarkSeen(ctx, criterion.OwnerID, criterion.ID, outcome.ListingIDs); err != nil {
		s.logger.Error("mark-seen failed after fanout, criterion retried next cycle",
			slog.String("criterion_id", criterion.ID.String()),
			slog.Any("error", err),
		)

		return
	}

	s.markChecked(ctx, run, criterion)
}

// failRun best-effort closes the run log as failed before surfacing the
// error that aborted the cycle. The returned run carries the failed status
// even when the close itself cannot be persisted.
func (s *orchestratorService) failRun(ctx context.Context, run *entity.RunLog, cause error) (*entity.RunLog, error) {
	run.Status = entity.RunFailed
	run.ErrorDetail = cause.Error()
	finishedAt := s.now()
	run.FinishedAt = &finishedAt
	if err := s.runLogRepo.Finish(ctx, run); err != nil {
		s.logger.Error("failed to close failed run log", slog.Any("error", err))
	}

	return run, cause
}

func (s *orchestratorService) markChecked(ctx context.Context, run *entity.RunLog, criterion *entity.Criterion) {
	if err := s.criterionRepo.UpdateLastChecked(ctx, criterion.ID, s.now()); err != nil {
		s.logger.Error("failed to advance last-checked",
			slog.String("criterion_id", criterion.ID.String()),
			slog.Any("error", err),
		)

		return
	}
	run.CriteriaChecked++
}

func (s *orchestratorService) planFor(ctx context.Context, contacts map[uuid.UUID]*entity.UserContact, ownerID uuid.UUID) entity.Plan {
	contact, ok := contacts[ownerID]
	if !ok {
		found, err := s.userRepo.FindContact(ctx, ownerID)
		if err != nil {
			if !errors.Is(err, repository.ErrUserContactNotFound) {
				s.logger.Warn("contact lookup failed, treating owner as free plan",
					slog.String("user_id", ownerID.String()),
					slog.Any("error", err),
				)
			}
			found = nil
		}
		contact = found
		contacts[ownerID] = contact
	}

	if contact == nil {
		return entity.PlanFree
	}

	return contact.Plan
}

func (s *orchestratorService) drainDispatchers(ctx context.Context) {
	if _, err := s.dispatch.DispatchSMS(ctx); err != nil {
		s.logger.Error("sms dispatch drain failed", slog.Any("error", err))
	}
	if _, err := s.dispatch.DispatchEmail(ctx); err != nil {
		s.logger.Error("email dispatch drain failed", slog.Any("error", err))
	}
}

func (s *orchestratorService) sweepStaleListings(ctx context.Context) {
	cutoff := s.now().Add(-s.listingRetention)
	swept, err := s.listingRepo.MarkInactiveOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn("listing staleness sweep failed", slog.Any("error", err))

		return
	}
	if swept > 0 {
		s.logger.Info("listing staleness sweep complete", slog.Int64("deactivated", swept))
	}
}

func searchQueryForBatch(batch *entity.Batch, limit int) service.SearchQuery {
	return service.SearchQuery{
		Areas:    batch.AreaKey,
		MinPrice: batch.MinPrice,
		MaxPrice: batch.MaxPrice,
		MinBeds:  batch.MinBeds,
		MaxBeds:  batch.MaxBeds,
		MinBaths: batch.MinBaths,
		NoFee:    batch.NoFee,
		Limit:    limit,
	}
}

func rawToListings(raw []service.RawListing) []*entity.Listing {
	listings := make([]*entity.Listing, 0, len(raw))
	for _, r := range raw {
		listings = append(listings, &entity.Listing{
			SourceID:     r.ID,
			Price:        r.Price,
			Bedrooms:     r.Bedrooms,
			Bathrooms:    r.Bathrooms,
			NoFee:        r.NoFee,
			Address:      r.Address,
			Neighborhood: r.Neighborhood,
			Latitude:     r.Latitude,
			Longitude:    r.Longitude,
			URL:          r.URL,
		})
	}

	return listings
}
