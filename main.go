package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/handler"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/config"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/iot"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/logging"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/lpr"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository/memory"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository/postgresql"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository/redisstore"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	deps, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	// 3. AWS clients, only when something needs them
	hub := handler.NewHub(log)
	publishers := service.MultiPublisher{hub}

	var sqsClient *sqs.Client
	if cfg.SQSGateQueueURL != "" || cfg.IoTEndpoint != "" || cfg.LPREnabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return fmt.Errorf("load aws config: %w", err)
		}
		log.Info("aws config loaded", zap.String("region", cfg.AWSRegion))

		if cfg.SQSGateQueueURL != "" {
			sqsClient = sqs.NewFromConfig(awsCfg)
		}
		if cfg.IoTEndpoint != "" {
			endpoint := cfg.IoTEndpoint
			if !strings.HasPrefix(endpoint, "https://") && !strings.HasPrefix(endpoint, "http://") {
				endpoint = "https://" + endpoint
			}
			dataPlane := iotdataplane.NewFromConfig(awsCfg, func(o *iotdataplane.Options) {
				o.BaseEndpoint = aws.String(endpoint)
			})
			publishers = append(publishers, iot.NewBarrierPublisher(dataPlane, cfg.IoTBarrierTopic, log))
		}
		if cfg.LPREnabled {
			deps.Recognizer = lpr.NewRecognizer(rekognition.NewFromConfig(awsCfg), log)
		}
	}
	deps.Events = publishers

	// 4. Services and dispatcher
	deps.Log = log
	deps.TimeoutPolicy = domain.TimeoutPolicy{Timeout: cfg.PaymentTimeout(), WarningWindow: cfg.PaymentWarning()}
	deps.TicketPrefix = cfg.TicketPrefix
	deps.JWTSecret = cfg.JWTSecret
	deps.JWTExpiration = cfg.JWTExpiration()
	services := service.New(deps)

	if cfg.AdminUsername != "" {
		if err := services.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	dispatcher := dispatch.New(log)
	if err := service.Register(dispatcher, services); err != nil {
		return fmt.Errorf("register handlers: %w", err)
	}

	// 5. Background workers
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Start(ctx)
	}()

	if sqsClient != nil {
		consumer := iot.NewSQSConsumer(sqsClient, cfg.SQSGateQueueURL, dispatcher, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("sqs consumer started", zap.String("queue", cfg.SQSGateQueueURL))
			consumer.Start(ctx)
			log.Info("sqs consumer stopped")
		}()
	} else {
		log.Warn("SQS_GATE_QUEUE_URL not set, gate events are not consumed")
	}

	// 6. HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           api.NewRouter(dispatcher, services.Auth, hub, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		log.Warn("background workers did not stop in time")
	}

	log.Info("server stopped")
	return nil
}

// openStores builds the repositories selected by STORAGE_DRIVER and USER_STORE.
// The returned func releases every connection that was opened.
func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Deps, func(), error) {
	var (
		deps    service.Deps
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		deps = service.Deps{
			Tx:           store,
			Users:        store.Users(),
			VehicleTypes: store.VehicleTypes(),
			RateConfigs:  store.RateConfigs(),
			Vehicles:     store.Vehicles(),
			Spaces:       store.ParkingSpaces(),
			Sessions:     store.ParkingSessions(),
			Payments:     store.Payments(),
			Dashboard:    store.Dashboard(),
		}
		log.Warn("using in-memory storage, data is lost on restart")

	default:
		db, err := postgresql.NewDB(ctx, cfg.PostgresDSN())
		if err != nil {
			return deps, closeAll, err
		}
		closers = append(closers, func() { closeDB(db, log) })
		if err := postgresql.Migrate(ctx, db); err != nil {
			closeAll()
			return deps, func() {}, fmt.Errorf("migrate: %w", err)
		}
		log.Info("database ready", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

		deps = service.Deps{
			Tx:           postgresql.NewTransactor(db),
			Users:        postgresql.NewPgUserRepository(db),
			VehicleTypes: postgresql.NewPgVehicleTypeRepository(db),
			RateConfigs:  postgresql.NewPgRateConfigRepository(db),
			Vehicles:     postgresql.NewPgVehicleRepository(db),
			Spaces:       postgresql.NewPgParkingSpaceRepository(db),
			Sessions:     postgresql.NewPgParkingSessionRepository(db),
			Payments:     postgresql.NewPgPaymentRepository(db),
			Dashboard:    postgresql.NewPgDashboardRepository(db),
		}
	}

	if cfg.UserStore == config.UserStoreRedis {
		client, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			closeAll()
			return deps, func() {}, err
		}
		closers = append(closers, func() { client.Close() })
		deps.Users = redisstore.NewUserRepository(client)
		log.Info("users stored in redis", zap.String("addr", cfg.RedisAddr))
	}
	return deps, closeAll, nil
}

func closeDB(db *sql.DB, log *zap.Logger) {
	if err := db.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
}
