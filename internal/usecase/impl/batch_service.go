// Package impl contains the application-service implementations.
package impl

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/repository"
	"leaseradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BatchGroup is one computed batch definition plus its member criteria.
type BatchGroup struct {
	Batch   entity.Batch
	Members []uuid.UUID
}

// GroupCriteria partitions active criteria by normalized area key and widens
// each group's bounds to the broadest superset covering every member:
// minimum of the lower bounds, maximum of the upper bounds, and any member
// without a bound makes the group unbounded on that side. The no-fee flag is
// the conjunction of all members, the most restrictive value that still
// covers everyone (a batch that does not filter fees covers a no-fee member;
// the match filter narrows later).
//
// Criteria with an empty area key carry no grouping key and are skipped.
func GroupCriteria(criteria []*entity.Criterion) []BatchGroup {
	byKey := make(map[string]*BatchGroup)
	for _, criterion := range criteria {
		if !criterion.IsActive {
			continue
		}
		key := criterion.AreaKey()
		if key == "" {
			continue
		}

		group, ok := byKey[key]
		if !ok {
			group = &BatchGroup{
				Batch: entity.Batch{
					AreaKey:  key,
					MinPrice: copyInt(criterion.MinPrice),
					MaxPrice: copyInt(criterion.MaxPrice),
					MinBeds:  copyInt(criterion.MinBeds),
					MaxBeds:  copyInt(criterion.MaxBeds),
					MinBaths: copyFloat(criterion.MinBaths),
					NoFee:    criterion.NoFee,
				},
			}
			byKey[key] = group
		} else {
			group.Batch.MinPrice = widenMin(group.Batch.MinPrice, criterion.MinPrice)
			group.Batch.MinBeds = widenMin(group.Batch.MinBeds, criterion.MinBeds)
			group.Batch.MaxPrice = widenMaxInt(group.Batch.MaxPrice, criterion.MaxPrice)
			group.Batch.MaxBeds = widenMaxInt(group.Batch.MaxBeds, criterion.MaxBeds)
			group.Batch.MinBaths = widenMinBaths(group.Batch.MinBaths, criterion.MinBaths)
			group.Batch.NoFee = group.Batch.NoFee && criterion.NoFee
		}
		group.Members = append(group.Members, criterion.ID)
	}

	groups := make([]BatchGroup, 0, len(byKey))
	for _, group := range byKey {
		group.Batch.MemberCount = len(group.Members)
		group.Batch.Hash = group.Batch.ComputeHash()
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Batch.AreaKey < groups[j].Batch.AreaKey })

	return groups
}

// widenMin: group lower bound is the minimum of members, nil once any member
// is unbounded below.
func widenMin(current, member *int) *int {
	if current == nil || member == nil {
		return nil
	}
	if *member < *current {
		return copyInt(member)
	}

	return current
}

// widenMaxInt: group upper bound is the maximum of members, nil once any
// member is unbounded above.
func widenMaxInt(current, member *int) *int {
	if current == nil || member == nil {
		return nil
	}
	if *member > *current {
		return copyInt(member)
	}

	return current
}

func widenMinBaths(current, member *float64) *float64 {
	if current == nil || member == nil {
		return nil
	}
	if *member < *current {
		return copyFloat(member)
	}

	return current
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v

	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v

	return &c
}

type batchService struct {
	logger        *slog.Logger
	criterionRepo repository.CriterionRepository
	txManager     repository.TransactionManager
}

// NewBatchService creates the batch reconciliation service.
func NewBatchService(
	logger *slog.Logger,
	criterionRepo repository.CriterionRepository,
	txManager repository.TransactionManager,
) usecase.BatchUsecase {
	return &batchService{
		logger:        logger,
		criterionRepo: criterionRepo,
		txManager:     txManager,
	}
}

// Reconcile recomputes batch groups from the active criteria and converges
// the stored batches onto them: upsert by content hash, replace memberships,
// drop batches whose hash no longer appears. Membership replacement runs
// inside one transaction so a failure never leaves partial membership.
func (s *batchService) Reconcile(ctx context.Context) (*usecase.ReconcileResult, error) {
	criteria, err := s.criterionRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active criteria")
	}

	groups := GroupCriteria(criteria)

	result := &usecase.ReconcileResult{Batches: len(groups)}
	hashes := make([]string, 0, len(groups))
	for _, group := range groups {
		hashes = append(hashes, group.Batch.Hash)
		result.Members += len(group.Members)
	}

	err = s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		batchRepo := repoFactory.NewBatchRepository()

		for i := range groups {
			batch := &groups[i].Batch
			batch.UpdatedAt = time.Now()
			if err := batchRepo.UpsertByHash(ctx, batch); err != nil {
				return errors.Wrapf(err, "failed to upsert batch %s", batch.Hash)
			}
			if err := batchRepo.ReplaceMemberships(ctx, batch.ID, groups[i].Members); err != nil {
				return errors.Wrapf(err, "failed to replace memberships for batch %s", batch.ID)
			}
		}

		// Also purges everything when the active criteria set is empty.
		if err := batchRepo.DeleteWhereHashNotIn(ctx, hashes); err != nil {
			return errors.Wrap(err, "failed to delete stale batches")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch reconciliation complete",
		slog.Int("batches", result.Batches),
		slog.Int("members", result.Members),
	)

	return result, nil
}
