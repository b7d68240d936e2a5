package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/domain/cart"
	"storefront/internal/domain/coupon"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/media"
	"storefront/internal/infra/messaging"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/middleware"
	"storefront/internal/notify"
	"storefront/internal/server"
	"storefront/internal/telemetry"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	lg, err := telemetry.NewLogger(cfg.GoEnv)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, lg, cfg); err != nil {
		lg.Error("Run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, lg *zap.Logger, cfg config.Config) error {
	//トレース・メトリクス
	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Otel.Endpoint, cfg.Otel.ServiceName, version)
	if err != nil {
		return err
	}
	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.Otel.ServiceName, version)
	if err != nil {
		return err
	}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return err
	}

	//DB接続
	if cfg.AutoMigrate {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			return err
		}
		lg.Info("Migrations applied")
	}
	gormDB, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		Debug:           cfg.IsDevelopment(),
	})
	if err != nil {
		return errors.Wrap(err, "connect db")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return errors.Wrap(err, "sql db")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	storeRepo := infraRepo.NewStoreGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//クーポン: 固定コード → DB の順に引く
	evaluator := coupon.NewEvaluator(coupon.Chain{
		coupon.DefaultStatic(),
		usecase.NewCouponRegistry(couponRepo),
	})

	//通知: Kafka が無ければログに出すだけ
	var publisher notify.Publisher = notify.NewLogPublisher(lg)
	var producer *messaging.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.CouponExpiredTopic)
		publisher = producer
	}
	dispatcher := notify.NewDispatcher(publisher, metrics, lg, notify.Options{
		QueueSize:   cfg.Notify.QueueSize,
		SendTimeout: cfg.Notify.SendTimeout,
	})

	mediaStore, err := media.NewLocalStore(cfg.Media.Dir, cfg.Media.BaseURL, cfg.Media.MaxBytes)
	if err != nil {
		return err
	}

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, productRepo, storeRepo, addressRepo, evaluator, metrics)
	storeUC := usecase.NewStoreUsecase(txm, storeRepo, productRepo, mediaStore)
	productUC := usecase.NewProductUsecase(txm, productRepo, mediaStore)
	dashboardUC := usecase.NewDashboardUsecase(orderRepo, productRepo, storeRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, validator.NewAuthValidator(userRepo))

	//Handler生成
	handlers := server.Handlers{
		Auth:    handler.NewAuthHandler(authUC),
		Address: handler.NewAddressHandler(usecase.NewAddressUsecase(addressRepo)),
		Order:   handler.NewOrderHandler(orderUC),
		Cart: handler.NewCartHandler(usecase.NewCartUsecase(
			cart.NewSessions(), productRepo, evaluator, orderUC, metrics,
		)),
		Coupon:  handler.NewCouponHandler(usecase.NewCouponUsecase(couponRepo, evaluator, dispatcher, lg)),
		Product: handler.NewProductHandler(productUC),
		Store: handler.NewStoreHandler(
			storeUC,
			productUC,
			usecase.NewStoreOrderUsecase(txm, orderUC, metrics),
			dashboardUC,
		),
		Admin: handler.NewAdminHandler(storeUC, dashboardUC),
	}
	mw := handler.Middlewares{
		Auth:   middleware.AuthJWT(cfg),
		Admin:  middleware.AdminRoleGuard(),
		Seller: middleware.SellerGuard(storeUC),
	}

	e := server.New(cfg, lg, handlers, mw, server.Ops{
		Metrics:  metricsHandler,
		MediaDir: mediaStore.Dir(),
		Ping:     sqlDB.PingContext,
	})

	serveErr := server.Run(ctx, lg, ":"+cfg.Port, e, cfg.ShutdownTimeout)

	//後片付け: 受付停止 → 通知の吐き出し → Kafka → DB → テレメトリ
	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := dispatcher.Close(closeCtx); err != nil {
		lg.Warn("Dispatcher close", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			lg.Warn("Producer close", zap.Error(err))
		}
	}
	if err := db.Close(gormDB); err != nil {
		lg.Warn("DB close", zap.Error(err))
	}
	if err := shutdownMeter(closeCtx); err != nil {
		lg.Warn("Meter shutdown", zap.Error(err))
	}
	if err := shutdownTracer(closeCtx); err != nil {
		lg.Warn("Tracer shutdown", zap.Error(err))
	}
	return serveErr
}
