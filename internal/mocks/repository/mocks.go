// Package repository provides testify mocks for the domain repository
// interfaces.
package repository

import (
	"context"
	"time"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockConstructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockCriterionRepository mocks repository.CriterionRepository.
type MockCriterionRepository struct {
	mock.Mock
}

// NewMockCriterionRepository creates the mock and registers expectation
// assertions as test cleanup.
func NewMockCriterionRepository(t mockConstructorTestingT) *MockCriterionRepository {
	m := &MockCriterionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCriterionRepository) ListActive(ctx context.Context) ([]*entity.Criterion, error) {
	args := m.Called(ctx)
	criteria, _ := args.Get(0).([]*entity.Criterion)

	return criteria, args.Error(1)
}

func (m *MockCriterionRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*entity.Criterion, error) {
	args := m.Called(ctx, batchID)
	criteria, _ := args.Get(0).([]*entity.Criterion)

	return criteria, args.Error(1)
}

func (m *MockCriterionRepository) UpdateLastChecked(ctx context.Context, id uuid.UUID, checkedAt time.Time) error {
	args := m.Called(ctx, id, checkedAt)

	return args.Error(0)
}

// MockBatchRepository mocks repository.BatchRepository.
type MockBatchRepository struct {
	mock.Mock
}

func NewMockBatchRepository(t mockConstructorTestingT) *MockBatchRepository {
	m := &MockBatchRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockBatchRepository) ListAll(ctx context.Context) ([]*entity.Batch, error) {
	args := m.Called(ctx)
	batches, _ := args.Get(0).([]*entity.Batch)

	return batches, args.Error(1)
}

func (m *MockBatchRepository) UpsertByHash(ctx context.Context, batch *entity.Batch) error {
	args := m.Called(ctx, batch)

	return args.Error(0)
}

func (m *MockBatchRepository) ReplaceMemberships(ctx context.Context, batchID uuid.UUID, criterionIDs []uuid.UUID) error {
	args := m.Called(ctx, batchID, criterionIDs)

	return args.Error(0)
}

func (m *MockBatchRepository) DeleteWhereHashNotIn(ctx context.Context, hashes []string) error {
	args := m.Called(ctx, hashes)

	return args.Error(0)
}

func (m *MockBatchRepository) UpdateLastFetched(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error {
	args := m.Called(ctx, id, fetchedAt)

	return args.Error(0)
}

// MockListingRepository mocks repository.ListingRepository.
type MockListingRepository struct {
	mock.Mock
}

func NewMockListingRepository(t mockConstructorTestingT) *MockListingRepository {
	m := &MockListingRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockListingRepository) UpsertBatch(ctx context.Context, listings []*entity.Listing, now time.Time) ([]*entity.Listing, error) {
	args := m.Called(ctx, listings, now)
	stored, _ := args.Get(0).([]*entity.Listing)

	return stored, args.Error(1)
}

func (m *MockListingRepository) UpdateStabilization(ctx context.Context, id uuid.UUID, status entity.StabilizationStatus, probability float64, source string, checkedAt time.Time) error {
	args := m.Called(ctx, id, status, probability, source, checkedAt)

	return args.Error(0)
}

func (m *MockListingRepository) MarkInactiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)

	return args.Get(0).(int64), args.Error(1)
}

// MockSeenRepository mocks repository.SeenRepository.
type MockSeenRepository struct {
	mock.Mock
}

func NewMockSeenRepository(t mockConstructorTestingT) *MockSeenRepository {
	m := &MockSeenRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSeenRepository) FilterNew(ctx context.Context, userID, criterionID uuid.UUID, listingIDs []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, criterionID, listingIDs)
	fresh, _ := args.Get(0).([]uuid.UUID)

	return fresh, args.Error(1)
}

func (m *MockSeenRepository) MarkSeen(ctx context.Context, userID, criterionID uuid.UUID, listingIDs []uuid.UUID) error {
	args := m.Called(ctx, userID, criterionID, listingIDs)

	return args.Error(0)
}

// MockNotificationRepository mocks repository.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func NewMockNotificationRepository(t mockConstructorTestingT) *MockNotificationRepository {
	m := &MockNotificationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, records []*entity.NotificationRecord) error {
	args := m.Called(ctx, records)

	return args.Error(0)
}

func (m *MockNotificationRepository) ListPending(ctx context.Context, channel entity.Channel, limit int) ([]*entity.NotificationRecord, error) {
	args := m.Called(ctx, channel, limit)
	records, _ := args.Get(0).([]*entity.NotificationRecord)

	return records, args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, providerMessageID string, sentAt time.Time) error {
	args := m.Called(ctx, id, providerMessageID, sentAt)

	return args.Error(0)
}

func (m *MockNotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	args := m.Called(ctx, id, errorMessage)

	return args.Error(0)
}

// MockRunLogRepository mocks repository.RunLogRepository.
type MockRunLogRepository struct {
	mock.Mock
}

func NewMockRunLogRepository(t mockConstructorTestingT) *MockRunLogRepository {
	m := &MockRunLogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRunLogRepository) Create(ctx context.Context, run *entity.RunLog) error {
	args := m.Called(ctx, run)

	return args.Error(0)
}

func (m *MockRunLogRepository) Finish(ctx context.Context, run *entity.RunLog) error {
	args := m.Called(ctx, run)

	return args.Error(0)
}

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository(t mockConstructorTestingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) FindContact(ctx context.Context, userID uuid.UUID) (*entity.UserContact, error) {
	args := m.Called(ctx, userID)
	contact, _ := args.Get(0).(*entity.UserContact)

	return contact, args.Error(1)
}

// MockTransactionManager mocks repository.TransactionManager. The default
// behavior runs the unit of work against the provided factory so tests
// exercise the real callback.
type MockTransactionManager struct {
	Factory repository.RepositoryFactory
	Err     error

	Executions int
}

func (m *MockTransactionManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	m.Executions++
	if m.Err != nil {
		return m.Err
	}

	return fn(m.Factory)
}

// StubRepositoryFactory returns fixed repositories from a transactional unit
// of work.
type StubRepositoryFactory struct {
	BatchRepo repository.BatchRepository
}

func (f *StubRepositoryFactory) NewBatchRepository() repository.BatchRepository {
	return f.BatchRepo
}
