// Package handler holds the worker surface's request handlers.
package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"leaseradar/config"
	deliverycontext "leaseradar/internal/delivery/context"
	"leaseradar/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CycleHandler triggers one pipeline cycle per request. Cycles never overlap;
// a request arriving while one runs is rejected with 409.
type CycleHandler struct {
	token        string
	logger       *slog.Logger
	orchestrator usecase.Orchestrator

	running sync.Mutex
}

// CycleHandlerParams holds dependencies for the CycleHandler
type CycleHandlerParams struct {
	fx.In

	Config       *config.Config
	Logger       *slog.Logger
	Orchestrator usecase.Orchestrator
}

// NewCycleHandler creates a new cycle trigger handler
func NewCycleHandler(params CycleHandlerParams) *CycleHandler {
	return &CycleHandler{
		token:        params.Config.Worker.Token,
		logger:       params.Logger,
		orchestrator: params.Orchestrator,
	}
}

type cycleResponse struct {
	RunID                string `json:"run_id"`
	Status               string `json:"status"`
	CriteriaChecked      int    `json:"criteria_checked"`
	BatchesFetched       int    `json:"batches_fetched"`
	ListingsFound        int    `json:"listings_found"`
	NotificationsCreated int    `json:"notifications_created"`
}

// HandleCycle runs one pipeline cycle and reports its counters.
func (h *CycleHandler) HandleCycle(c echo.Context) error {
	ctx := c.Request().Context()
	reqLogger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	if h.token != "" {
		if !h.authorized(c.Request()) {
			reqLogger.Warn("[Worker] Rejected cycle trigger with bad token")

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	if !h.running.TryLock() {
		reqLogger.Warn("[Worker] Cycle already in progress")

		return c.JSON(http.StatusConflict, map[string]string{"error": "cycle already running"})
	}
	defer h.running.Unlock()

	run, err := h.orchestrator.RunCycle(ctx)
	if err != nil {
		reqLogger.Error("[Worker] Cycle failed", slog.Any("error", err))

		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	reqLogger.Info("[Worker] Cycle completed",
		slog.String("run_id", run.ID.String()),
		slog.Int("criteria_checked", run.CriteriaChecked),
		slog.Int("notifications_created", run.NotificationsCreated),
	)

	return c.JSON(http.StatusOK, cycleResponse{
		RunID:                run.ID.String(),
		Status:               string(run.Status),
		CriteriaChecked:      run.CriteriaChecked,
		BatchesFetched:       run.BatchesFetched,
		ListingsFound:        run.ListingsFound,
		NotificationsCreated: run.NotificationsCreated,
	})
}

func (h *CycleHandler) authorized(req *http.Request) bool {
	const bearerPrefix = "Bearer "

	authHeader := req.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return false
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	return subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) == 1
}
