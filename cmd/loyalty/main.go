package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"loyalty/config"
	"loyalty/internal/delivery"
	"loyalty/internal/delivery/http"
	"loyalty/internal/delivery/http/middleware"
	"loyalty/internal/delivery/http/router/handler"
	"loyalty/internal/domain/service"
	"loyalty/internal/infra/auth"
	logs "loyalty/internal/infra/log"
	"loyalty/internal/infra/persistence/postgres"
	"loyalty/internal/infra/pubsub"
	"loyalty/internal/infra/qrcode"
	"loyalty/internal/infra/storage"
	"loyalty/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewAuthRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewDeviceRepository,
			postgres.NewMissionRepository,
			postgres.NewParticipationRepository,
			postgres.NewReviewRepository,
			postgres.NewRedemptionRepository,
			postgres.NewPointTransactionRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			pubsub.NewEventPublisher,
			newStorageService,
			newVoucherService,
		),
	)
}

// newStorageService creates the blob storage service with dependency injection
func newStorageService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.StorageService, error) {
	svc, err := storage.NewBlobStorageService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage service: %w", err)
	}

	return svc, nil
}

// newVoucherService creates a voucher QR service with dependency injection
func newVoucherService(cfg *config.Config) service.VoucherService {
	if cfg.Voucher == nil {
		// Use default values if not configured
		return qrcode.NewVoucherService(256, "M")
	}

	return qrcode.NewVoucherService(cfg.Voucher.Size, cfg.Voucher.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewProfileService,
			impl.NewMissionService,
			impl.NewParticipationService,
			impl.NewReviewService,
			impl.NewRedemptionService,
			impl.NewPointsService,
			impl.NewDeviceService,
			impl.NewMediaService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewProfileHandler,
			handler.NewMissionHandler,
			handler.NewParticipationHandler,
			handler.NewReviewHandler,
			handler.NewRedemptionHandler,
			handler.NewPointsHandler,
			handler.NewDeviceHandler,
			handler.NewMediaHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
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
				os.Exit(1)
			}
		}()
	}
}
