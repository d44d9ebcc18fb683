package main

import (
	"context"
	"log/slog"
	"os"

	"leaseradar/config"
	"leaseradar/internal/delivery"
	"leaseradar/internal/delivery/worker"
	"leaseradar/internal/delivery/worker/handler"
	"leaseradar/internal/infra/email"
	"leaseradar/internal/infra/listingsearch"
	logs "leaseradar/internal/infra/log"
	"leaseradar/internal/infra/persistence/postgres"
	"leaseradar/internal/infra/registry"
	"leaseradar/internal/infra/sms"
	"leaseradar/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		// Expose client sections so the infra constructors take only what
		// they use.
		func(cfg *config.Config) *config.UpstreamConfig { return cfg.Upstream },
		func(cfg *config.Config) *config.RegistryConfig { return cfg.Registry },
		func(cfg *config.Config) *config.SMSConfig { return cfg.SMS },
		func(cfg *config.Config) *config.EmailConfig { return cfg.Email },
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewCriterionRepository,
			postgres.NewBatchRepository,
			postgres.NewListingRepository,
			postgres.NewSeenRepository,
			postgres.NewNotificationRepository,
			postgres.NewRunLogRepository,
			postgres.NewUserRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			listingsearch.New,
			registry.New,
			sms.New,
			email.New,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewScheduleGate,
			impl.NewBatchService,
			impl.NewEnrichmentService,
			impl.NewFanoutService,
			impl.NewDispatchService,
			impl.NewOrchestrator,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewCycleHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
