package impl

import (
	"io"
	"log/slog"
	"time"

	"leaseradar/internal/domain/entity"

	"github.com/google/uuid"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func activeCriterion(areas ...string) *entity.Criterion {
	return &entity.Criterion{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Areas:    areas,
		IsActive: true,
		Tier:     entity.Tier1Hour,
	}
}
