package impl

import (
	"context"
	"testing"

	"leaseradar/internal/domain/entity"
	mockRepo "leaseradar/internal/mocks/repository"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGroupCriteria_SameAreaKeySharesBatch(t *testing.T) {
	a := activeCriterion("Astoria", "Greenpoint")
	b := activeCriterion("greenpoint", " ASTORIA ")

	groups := GroupCriteria([]*entity.Criterion{a, b})

	require.Len(t, groups, 1)
	assert.Equal(t, "astoria,greenpoint", groups[0].Batch.AreaKey)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, groups[0].Members)
	assert.Equal(t, 2, groups[0].Batch.MemberCount)
}

func TestGroupCriteria_BoundsAreCoveringSuperset(t *testing.T) {
	a := activeCriterion("astoria")
	a.MinPrice = intPtr(2000)
	a.MaxPrice = intPtr(3000)
	a.MinBeds = intPtr(2)
	a.MaxBeds = intPtr(3)
	a.MinBaths = floatPtr(1.5)

	b := activeCriterion("astoria")
	b.MinPrice = intPtr(1500)
	b.MaxPrice = intPtr(3500)
	b.MinBeds = intPtr(1)
	b.MaxBeds = intPtr(2)
	b.MinBaths = floatPtr(1)

	groups := GroupCriteria([]*entity.Criterion{a, b})

	require.Len(t, groups, 1)
	expected := entity.Batch{
		AreaKey:     "astoria",
		MinPrice:    intPtr(1500),
		MaxPrice:    intPtr(3500),
		MinBeds:     intPtr(1),
		MaxBeds:     intPtr(3),
		MinBaths:    floatPtr(1),
		MemberCount: 2,
	}
	expected.Hash = expected.ComputeHash()
	assert.Empty(t, cmp.Diff(expected, groups[0].Batch))
}

func TestGroupCriteria_NilBoundMakesGroupUnbounded(t *testing.T) {
	a := activeCriterion("astoria")
	a.MinPrice = intPtr(2000)
	a.MaxPrice = intPtr(3000)

	b := activeCriterion("astoria")
	// No price bounds at all.

	groups := GroupCriteria([]*entity.Criterion{a, b})

	require.Len(t, groups, 1)
	assert.Nil(t, groups[0].Batch.MinPrice)
	assert.Nil(t, groups[0].Batch.MaxPrice)
}

func TestGroupCriteria_NoFeeIsConjunction(t *testing.T) {
	a := activeCriterion("astoria")
	a.NoFee = true
	b := activeCriterion("astoria")
	b.NoFee = false

	groups := GroupCriteria([]*entity.Criterion{a, b})

	require.Len(t, groups, 1)
	assert.False(t, groups[0].Batch.NoFee, "one any-fee member must widen the batch to any-fee")

	c := activeCriterion("ridgewood")
	c.NoFee = true
	d := activeCriterion("ridgewood")
	d.NoFee = true

	groups = GroupCriteria([]*entity.Criterion{c, d})

	require.Len(t, groups, 1)
	assert.True(t, groups[0].Batch.NoFee)
}

func TestGroupCriteria_SkipsInactiveAndEmptyAreaKey(t *testing.T) {
	inactive := activeCriterion("astoria")
	inactive.IsActive = false
	empty := activeCriterion("  ", "")

	groups := GroupCriteria([]*entity.Criterion{inactive, empty})

	assert.Empty(t, groups)
}

func TestGroupCriteria_SortedByAreaKeyWithHashes(t *testing.T) {
	a := activeCriterion("williamsburg")
	b := activeCriterion("astoria")

	groups := GroupCriteria([]*entity.Criterion{a, b})

	require.Len(t, groups, 2)
	assert.Equal(t, "astoria", groups[0].Batch.AreaKey)
	assert.Equal(t, "williamsburg", groups[1].Batch.AreaKey)
	assert.NotEmpty(t, groups[0].Batch.Hash)
	assert.NotEqual(t, groups[0].Batch.Hash, groups[1].Batch.Hash)
}

func TestBatchService_Reconcile_UpsertsAndPrunes(t *testing.T) {
	mockCriterionRepo := mockRepo.NewMockCriterionRepository(t)
	mockBatchRepo := mockRepo.NewMockBatchRepository(t)
	txManager := &mockRepo.MockTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{BatchRepo: mockBatchRepo},
	}
	service := NewBatchService(newTestLogger(), mockCriterionRepo, txManager)

	ctx := context.Background()
	a := activeCriterion("astoria")
	b := activeCriterion("astoria")
	c := activeCriterion("ridgewood")

	mockCriterionRepo.On("ListActive", ctx).Return([]*entity.Criterion{a, b, c}, nil)
	mockBatchRepo.On("UpsertByHash", ctx, mock.AnythingOfType("*entity.Batch")).Return(nil).Twice()
	mockBatchRepo.On("ReplaceMemberships", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("[]uuid.UUID")).Return(nil).Twice()
	mockBatchRepo.On("DeleteWhereHashNotIn", ctx, mock.AnythingOfType("[]string")).Return(nil).Once()

	result, err := service.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Batches)
	assert.Equal(t, 3, result.Members)
	assert.Equal(t, 1, txManager.Executions)
}

func TestBatchService_Reconcile_MembershipFailureAbortsUnit(t *testing.T) {
	mockCriterionRepo := mockRepo.NewMockCriterionRepository(t)
	mockBatchRepo := mockRepo.NewMockBatchRepository(t)
	txManager := &mockRepo.MockTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{BatchRepo: mockBatchRepo},
	}
	service := NewBatchService(newTestLogger(), mockCriterionRepo, txManager)

	ctx := context.Background()
	mockCriterionRepo.On("ListActive", ctx).Return([]*entity.Criterion{activeCriterion("astoria")}, nil)
	mockBatchRepo.On("UpsertByHash", ctx, mock.AnythingOfType("*entity.Batch")).Return(nil).Once()
	mockBatchRepo.On("ReplaceMemberships", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("[]uuid.UUID")).
		Return(errors.New("membership write failed")).Once()

	_, err := service.Reconcile(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "membership write failed")
}

func TestBatchService_Reconcile_EmptyCriteriaPurgesAll(t *testing.T) {
	mockCriterionRepo := mockRepo.NewMockCriterionRepository(t)
	mockBatchRepo := mockRepo.NewMockBatchRepository(t)
	txManager := &mockRepo.MockTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{BatchRepo: mockBatchRepo},
	}
	service := NewBatchService(newTestLogger(), mockCriterionRepo, txManager)

	ctx := context.Background()
	mockCriterionRepo.On("ListActive", ctx).Return([]*entity.Criterion{}, nil)
	mockBatchRepo.On("DeleteWhereHashNotIn", ctx, []string{}).Return(nil).Once()

	result, err := service.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Batches)
}
