package impl

import (
	"context"
	"testing"
	"time"

	"leaseradar/config"
	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/service"
	mockRepo "leaseradar/internal/mocks/repository"
	mockSvc "leaseradar/internal/mocks/service"
	"leaseradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBatchUsecase struct{ mock.Mock }

func (m *mockBatchUsecase) Reconcile(ctx context.Context) (*usecase.ReconcileResult, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*usecase.ReconcileResult)

	return result, args.Error(1)
}

type mockEnrichmentUsecase struct{ mock.Mock }

func (m *mockEnrichmentUsecase) EnrichListings(ctx context.Context, listings []*entity.Listing) int {
	args := m.Called(ctx, listings)

	return args.Int(0)
}

type mockFanoutUsecase struct{ mock.Mock }

func (m *mockFanoutUsecase) NotifyCriterion(ctx context.Context, criterion *entity.Criterion, contact *entity.UserContact, listings []*entity.Listing) (*usecase.FanoutOutcome, error) {
	args := m.Called(ctx, criterion, contact, listings)
	outcome, _ := args.Get(0).(*usecase.FanoutOutcome)

	return outcome, args.Error(1)
}

type mockDispatchUsecase struct{ mock.Mock }

func (m *mockDispatchUsecase) DispatchSMS(ctx context.Context) (usecase.DispatchStats, error) {
	args := m.Called(ctx)

	return args.Get(0).(usecase.DispatchStats), args.Error(1)
}

func (m *mockDispatchUsecase) DispatchEmail(ctx context.Context) (usecase.DispatchStats, error) {
	args := m.Called(ctx)

	return args.Get(0).(usecase.DispatchStats), args.Error(1)
}

type orchestratorFixture struct {
	criterionRepo *mockRepo.MockCriterionRepository
	batchRepo     *mockRepo.MockBatchRepository
	listingRepo   *mockRepo.MockListingRepository
	userRepo      *mockRepo.MockUserRepository
	seenRepo      *mockRepo.MockSeenRepository
	runLogRepo    *mockRepo.MockRunLogRepository
	searcher      *mockSvc.MockListingSearcher
	batches       *mockBatchUsecase
	enrichment    *mockEnrichmentUsecase
	fanout        *mockFanoutUsecase
	dispatch      *mockDispatchUsecase

	svc *orchestratorService
}

// cycleTime is a top-of-hour moment so every tier's window boundary is open.
var cycleTime = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	f := &orchestratorFixture{
		criterionRepo: mockRepo.NewMockCriterionRepository(t),
		batchRepo:     mockRepo.NewMockBatchRepository(t),
		listingRepo:   mockRepo.NewMockListingRepository(t),
		userRepo:      mockRepo.NewMockUserRepository(t),
		seenRepo:      mockRepo.NewMockSeenRepository(t),
		runLogRepo:    mockRepo.NewMockRunLogRepository(t),
		searcher:      mockSvc.NewMockListingSearcher(t),
		batches:       &mockBatchUsecase{},
		enrichment:    &mockEnrichmentUsecase{},
		fanout:        &mockFanoutUsecase{},
		dispatch:      &mockDispatchUsecase{},
	}
	f.batches.Test(t)
	f.enrichment.Test(t)
	f.fanout.Test(t)
	f.dispatch.Test(t)
	t.Cleanup(func() {
		f.batches.AssertExpectations(t)
		f.enrichment.AssertExpectations(t)
		f.fanout.AssertExpectations(t)
		f.dispatch.AssertExpectations(t)
	})

	cfg := &config.Config{}
	cfg.Upstream = &config.UpstreamConfig{PageLimit: 100}
	cfg.Retention.ListingDays = 7

	f.svc = NewOrchestrator(
		newTestLogger(),
		f.criterionRepo,
		f.batchRepo,
		f.listingRepo,
		f.userRepo,
		f.seenRepo,
		f.runLogRepo,
		f.searcher,
		f.batches,
		NewScheduleGate(),
		f.enrichment,
		f.fanout,
		f.dispatch,
		cfg,
	).(*orchestratorService)
	f.svc.now = func() time.Time { return cycleTime }

	return f
}

// expectRunBookkeeping covers the run-log open/close and the end-of-cycle
// drain and sweep every successful cycle performs.
func (f *orchestratorFixture) expectRunBookkeeping(ctx context.Context) {
	f.runLogRepo.On("Create", ctx, mock.AnythingOfType("*entity.RunLog")).Return(nil).Once()
	f.runLogRepo.On("Finish", ctx, mock.AnythingOfType("*entity.RunLog")).Return(nil).Once()
	f.dispatch.On("DispatchSMS", ctx).Return(usecase.DispatchStats{}, nil).Once()
	f.dispatch.On("DispatchEmail", ctx).Return(usecase.DispatchStats{}, nil).Once()
	f.listingRepo.On("MarkInactiveOlderThan", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
}

func storedBatch() *entity.Batch {
	batch := &entity.Batch{ID: uuid.New(), AreaKey: "astoria"}
	batch.Hash = batch.ComputeHash()

	return batch
}

func TestOrchestrator_RunCycle_HappyPath(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	batch := storedBatch()
	criterion := activeCriterion("astoria")
	contact := &entity.UserContact{UserID: criterion.OwnerID, Email: "renter@example.com", Plan: entity.PlanFree}

	f.expectRunBookkeeping(ctx)
	f.batches.On("Reconcile", ctx).Return(&usecase.ReconcileResult{Batches: 1, Members: 1}, nil).Once()
	f.batchRepo.On("ListAll", ctx).Return([]*entity.Batch{batch}, nil).Once()
	f.criterionRepo.On("ListByBatch", ctx, batch.ID).Return([]*entity.Criterion{criterion}, nil).Once()
	f.userRepo.On("FindContact", ctx, criterion.OwnerID).Return(contact, nil).Once()

	raw := []service.RawListing{
		{ID: "src-1", Price: 2400, Bedrooms: 2, Bathrooms: 1, Neighborhood: "Astoria"},
		{ID: "src-2", Price: 2600, Bedrooms: 2, Bathrooms: 1, Neighborhood: "Astoria"},
	}
	f.searcher.On("Search", ctx, mock.AnythingOfType("service.SearchQuery")).
		Return(&service.SearchPage{Listings: raw, Count: 2}, nil).Once()

	stored := []*entity.Listing{
		{ID: uuid.New(), SourceID: "src-1", Price: 2400, Bedrooms: 2, Bathrooms: 1},
		{ID: uuid.New(), SourceID: "src-2", Price: 2600, Bedrooms: 2, Bathrooms: 1},
	}
	f.listingRepo.On("UpsertBatch", ctx, mock.AnythingOfType("[]*entity.Listing"), cycleTime).Return(stored, nil).Once()
	f.enrichment.On("EnrichListings", ctx, stored).Return(0).Once()
	f.batchRepo.On("UpdateLastFetched", ctx, batch.ID, cycleTime).Return(nil).Once()

	f.seenRepo.On("FilterNew", ctx, criterion.OwnerID, criterion.ID, []uuid.UUID{stored[0].ID, stored[1].ID}).
		Return([]uuid.UUID{stored[0].ID, stored[1].ID}, nil).Once()
	f.fanout.On("NotifyCriterion", ctx, criterion, contact, stored).
		Return(&usecase.FanoutOutcome{
			RecordsCreated: 4,
			Channels:       []entity.Channel{entity.ChannelEmail, entity.ChannelInApp},
			ListingIDs:     []uuid.UUID{stored[0].ID, stored[1].ID},
		}, nil).Once()
	f.seenRepo.On("MarkSeen", ctx, criterion.OwnerID, criterion.ID, []uuid.UUID{stored[0].ID, stored[1].ID}).Return(nil).Once()
	f.criterionRepo.On("UpdateLastChecked", ctx, criterion.ID, cycleTime).Return(nil).Once()

	run, err := f.svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.RunCompleted, run.Status)
	assert.Equal(t, 1, run.CriteriaChecked)
	assert.Equal(t, 1, run.BatchesFetched)
	assert.Equal(t, 2, run.ListingsFound)
	assert.Equal(t, 4, run.NotificationsCreated)
	require.NotNil(t, run.FinishedAt)
}

func TestOrchestrator_RunCycle_UpstreamFailureSkipsBatch(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	batch := storedBatch()
	criterion := activeCriterion("astoria")

	f.expectRunBookkeeping(ctx)
	f.batches.On("Reconcile", ctx).Return(&usecase.ReconcileResult{}, nil).Once()
	f.batchRepo.On("ListAll", ctx).Return([]*entity.Batch{batch}, nil).Once()
	f.criterionRepo.On("ListByBatch", ctx, batch.ID).Return([]*entity.Criterion{criterion}, nil).Once()
	f.userRepo.On("FindContact", ctx, criterion.OwnerID).Return(nil, errors.New("contact store down")).Once()
	f.searcher.On("Search", ctx, mock.AnythingOfType("service.SearchQuery")).
		Return(nil, errors.New("upstream 503")).Once()

	run, err := f.svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.RunCompleted, run.Status)
	assert.Zero(t, run.BatchesFetched)
	assert.Zero(t, run.CriteriaChecked, "failed batch must not advance its criteria")
}

func TestOrchestrator_RunCycle_ReconcileFailureRunsOnStoredBatches(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	batch := storedBatch()

	f.expectRunBookkeeping(ctx)
	f.batches.On("Reconcile", ctx).Return(nil, errors.New("reconcile failed")).Once()
	f.batchRepo.On("ListAll", ctx).Return([]*entity.Batch{batch}, nil).Once()
	f.criterionRepo.On("ListByBatch", ctx, batch.ID).Return([]*entity.Criterion{}, nil).Once()

	run, err := f.svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.RunCompleted, run.Status)
}

func TestOrchestrator_RunCycle_NoChannelFanoutLeavesCriterionUnadvanced(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	batch := storedBatch()
	criterion := activeCriterion("astoria")
	criterion.NotifySMS = true

	f.expectRunBookkeeping(ctx)
	f.batches.On("Reconcile", ctx).Return(&usecase.ReconcileResult{}, nil).Once()
	f.batchRepo.On("ListAll", ctx).Return([]*entity.Batch{batch}, nil).Once()
	f.criterionRepo.On("ListByBatch", ctx, batch.ID).Return([]*entity.Criterion{criterion}, nil).Once()
	// Owner has no contact row: plan defaults to free, SMS has no number.
	f.userRepo.On("FindContact", ctx, criterion.OwnerID).Return(nil, errors.New("user contact not found")).Once()

	stored := []*entity.Listing{{ID: uuid.New(), SourceID: "src-1", Price: 2400}}
	f.searcher.On("Search", ctx, mock.AnythingOfType("service.SearchQuery")).
		Return(&service.SearchPage{Listings: []service.RawListing{{ID: "src-1", Price: 2400}}, Count: 1}, nil).Once()
	f.listingRepo.On("UpsertBatch", ctx, mock.AnythingOfType("[]*entity.Listing"), cycleTime).Return(stored, nil).Once()
	f.enrichment.On("EnrichListings", ctx, stored).Return(0).Once()
	f.batchRepo.On("UpdateLastFetched", ctx, batch.ID, cycleTime).Return(nil).Once()

	f.seenRepo.On("FilterNew", ctx, criterion.OwnerID, criterion.ID, []uuid.UUID{stored[0].ID}).
		Return([]uuid.UUID{stored[0].ID}, nil).Once()
	f.fanout.On("NotifyCriterion", ctx, criterion, (*entity.UserContact)(nil), stored).
		Return(&usecase.FanoutOutcome{SkippedNoChannels: true}, nil).Once()

	run, err := f.svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Zero(t, run.CriteriaChecked, "skipped fanout must not mark seen or advance the check")
	assert.Zero(t, run.NotificationsCreated)
}

func TestOrchestrator_RunCycle_MarkSeenFailureLeavesCriterionUnadvanced(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	batch := storedBatch()
	criterion := activeCriterion("astoria")
	contact := &entity.UserContact{UserID: criterion.OwnerID, Email: "renter@example.com", Plan: entity.PlanFree}

	f.expectRunBookkeeping(ctx)
	f.batches.On("Reconcile", ctx).Return(&usecase.ReconcileResult{}, nil).Once()
	f.batchRepo.On("ListAll", ctx).Return([]*entity.Batch{batch}, nil).Once()
	f.criterionRepo.On("ListByBatch", ctx, batch.ID).Return([]*entity.Criterion{criterion}, nil).Once()
	f.userRepo.On("FindContact", ctx, criterion.OwnerID).Return(contact, nil).Once()

	stored := []*entity.Listing{{ID: uuid.New(), SourceID: "src-1", Price: 2400}}
	f.searcher.On("Search", ctx, mock.AnythingOfType("service.SearchQuery")).
		Return(&service.SearchPage{Listings: []service.RawListing{{ID: "src-1", Price: 2400}}, Count: 1}, nil).Once()
	f.listingRepo.On("UpsertBatch", ctx, mock.AnythingOfType("[]*entity.Listing"), cycleTime).Return(stored, nil).Once()
	f.enrichment.On("EnrichListings", ctx, stored).Return(0).Once()
	f.batchRepo.On("UpdateLastFetched", ctx, batch.ID, cycleTime).Return(nil).Once()

	f.seenRepo.On("FilterNew", ctx, criterion.OwnerID, criterion.ID, []uuid.UUID{stored[0].ID}).
		Return([]uuid.UUID{stored[0].ID}, nil).Once()
	f.fanout.On("NotifyCriterion", ctx, criterion, contact, stored).
		Return(&usecase.FanoutOutcome{
			RecordsCreated: 1,
			Channels:       []entity.Channel{entity.ChannelEmail},
			ListingIDs:     []uuid.UUID{stored[0].ID},
		}, nil).Once()
	f.seenRepo.On("MarkSeen", ctx, criterion.OwnerID, criterion.ID, []uuid.UUID{stored[0].ID}).
		Return(errors.New("seen store down")).Once()

	run, err := f.svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Zero(t, run.CriteriaChecked, "mark-seen failure must leave lastChecked untouched")
	assert.Equal(t, 1, run.NotificationsCreated)
}

func TestOrchestrator_RunCycle_TwoCriteriaSharedBatchScopesSeenSets(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	batch := storedBatch()

	// Two criteria share the astoria batch but narrow it differently: one
	// caps price, the other demands three bedrooms.
	cheap := activeCriterion("astoria")
	cheap.MaxPrice = intPtr(2500)
	roomy := activeCriterion("astoria")
	roomy.MinBeds = intPtr(3)

	cheapContact := &entity.UserContact{UserID: cheap.OwnerID, Email: "cheap@example.com", Plan: entity.PlanFree}
	roomyContact := &entity.UserContact{UserID: roomy.OwnerID, Email: "roomy@example.com", Plan: entity.PlanFree}

	f.expectRunBookkeeping(ctx)
	f.batches.On("Reconcile", ctx).Return(&usecase.ReconcileResult{}, nil).Once()
	f.batchRepo.On("ListAll", ctx).Return([]*entity.Batch{batch}, nil).Once()
	f.criterionRepo.On("ListByBatch", ctx, batch.ID).Return([]*entity.Criterion{cheap, roomy}, nil).Once()
	f.userRepo.On("FindContact", ctx, cheap.OwnerID).Return(cheapContact, nil).Once()
	f.userRepo.On("FindContact", ctx, roomy.OwnerID).Return(roomyContact, nil).Once()

	raw := []service.RawListing{
		{ID: "src-1", Price: 2000, Bedrooms: 2},
		{ID: "src-2", Price: 2400, Bedrooms: 2},
		{ID: "src-3", Price: 3200, Bedrooms: 3},
	}
	f.searcher.On("Search", ctx, mock.AnythingOfType("service.SearchQuery")).
		Return(&service.SearchPage{Listings: raw, Count: 3}, nil).Once()

	stored := []*entity.Listing{
		{ID: uuid.New(), SourceID: "src-1", Price: 2000, Bedrooms: 2},
		{ID: uuid.New(), SourceID: "src-2", Price: 2400, Bedrooms: 2},
		{ID: uuid.New(), SourceID: "src-3", Price: 3200, Bedrooms: 3},
	}
	f.listingRepo.On("UpsertBatch", ctx, mock.AnythingOfType("[]*entity.Listing"), cycleTime).Return(stored, nil).Once()
	f.enrichment.On("EnrichListings", ctx, stored).Return(0).Once()
	f.batchRepo.On("UpdateLastFetched", ctx, batch.ID, cycleTime).Return(nil).Once()

	// One shared fetch, but each criterion dedups and records exactly its
	// own matched set.
	cheapIDs := []uuid.UUID{stored[0].ID, stored[1].ID}
	roomyIDs := []uuid.UUID{stored[2].ID}
	f.seenRepo.On("FilterNew", ctx, cheap.OwnerID, cheap.ID, cheapIDs).Return(cheapIDs, nil).Once()
	f.seenRepo.On("FilterNew", ctx, roomy.OwnerID, roomy.ID, roomyIDs).Return(roomyIDs, nil).Once()
	f.fanout.On("NotifyCriterion", ctx, cheap, cheapContact, []*entity.Listing{stored[0], stored[1]}).
		Return(&usecase.FanoutOutcome{RecordsCreated: 2, Channels: []entity.Channel{entity.ChannelEmail}, ListingIDs: cheapIDs}, nil).Once()
	f.fanout.On("NotifyCriterion", ctx, roomy, roomyContact, []*entity.Listing{stored[2]}).
		Return(&usecase.FanoutOutcome{RecordsCreated: 1, Channels: []entity.Channel{entity.ChannelEmail}, ListingIDs: roomyIDs}, nil).Once()
	f.seenRepo.On("MarkSeen", ctx, cheap.OwnerID, cheap.ID, cheapIDs).Return(nil).Once()
	f.seenRepo.On("MarkSeen", ctx, roomy.OwnerID, roomy.ID, roomyIDs).Return(nil).Once()
	f.criterionRepo.On("UpdateLastChecked", ctx, cheap.ID, cycleTime).Return(nil).Once()
	f.criterionRepo.On("UpdateLastChecked", ctx, roomy.ID, cycleTime).Return(nil).Once()

	run, err := f.svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, run.BatchesFetched, "shared batch is fetched once for both criteria")
	assert.Equal(t, 2, run.CriteriaChecked)
	assert.Equal(t, 3, run.NotificationsCreated)
}

func TestOrchestrator_RunCycle_BatchListFailureClosesRunAsFailed(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	f.runLogRepo.On("Create", ctx, mock.AnythingOfType("*entity.RunLog")).Return(nil).Once()
	f.batches.On("Reconcile", ctx).Return(&usecase.ReconcileResult{}, nil).Once()
	f.batchRepo.On("ListAll", ctx).Return(nil, errors.New("batch store down")).Once()
	f.runLogRepo.On("Finish", ctx, mock.AnythingOfType("*entity.RunLog")).Return(nil).Once()

	run, err := f.svc.RunCycle(ctx)
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, entity.RunFailed, run.Status)
	assert.Contains(t, run.ErrorDetail, "batch store down")
	require.NotNil(t, run.FinishedAt)
}

func TestOrchestrator_RunCycle_AllSeenListingsAdvanceWithoutFanout(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	batch := storedBatch()
	criterion := activeCriterion("astoria")
	contact := &entity.UserContact{UserID: criterion.OwnerID, Email: "renter@example.com", Plan: entity.PlanFree}

	f.expectRunBookkeeping(ctx)
	f.batches.On("Reconcile", ctx).Return(&usecase.ReconcileResult{}, nil).Once()
	f.batchRepo.On("ListAll", ctx).Return([]*entity.Batch{batch}, nil).Once()
	f.criterionRepo.On("ListByBatch", ctx, batch.ID).Return([]*entity.Criterion{criterion}, nil).Once()
	f.userRepo.On("FindContact", ctx, criterion.OwnerID).Return(contact, nil).Once()

	stored := []*entity.Listing{{ID: uuid.New(), SourceID: "src-1", Price: 2400}}
	f.searcher.On("Search", ctx, mock.AnythingOfType("service.SearchQuery")).
		Return(&service.SearchPage{Listings: []service.RawListing{{ID: "src-1", Price: 2400}}, Count: 1}, nil).Once()
	f.listingRepo.On("UpsertBatch", ctx, mock.AnythingOfType("[]*entity.Listing"), cycleTime).Return(stored, nil).Once()
	f.enrichment.On("EnrichListings", ctx, stored).Return(0).Once()
	f.batchRepo.On("UpdateLastFetched", ctx, batch.ID, cycleTime).Return(nil).Once()

	// Everything already surfaced in an earlier cycle.
	f.seenRepo.On("FilterNew", ctx, criterion.OwnerID, criterion.ID, []uuid.UUID{stored[0].ID}).
		Return([]uuid.UUID{}, nil).Once()
	f.criterionRepo.On("UpdateLastChecked", ctx, criterion.ID, cycleTime).Return(nil).Once()

	run, err := f.svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, run.CriteriaChecked)
	assert.Zero(t, run.NotificationsCreated)
}
