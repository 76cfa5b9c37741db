package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	createBookingHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/create_booking"
	deleteExceptionHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/delete_exception"
	getAvailabilityHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/get_booking"
	getBookingAuditHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/get_booking_audit"
	getBusinessBookingsHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/get_business_bookings"
	getCustomerBookingsHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/get_customer_bookings"
	getEffectiveHoursHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/get_effective_hours"
	getOpenWeekdaysHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/get_open_weekdays"
	"github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/healthz"
	listExceptionsHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/list_exceptions"
	transitionBookingHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/transition_booking"
	updateAvailabilityHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/update_availability"
	upsertExceptionHandler "github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers/upsert_exception"
	"github.com/kameqazi1/Manaakhah-sub002/internal/api/middleware"
	"github.com/kameqazi1/Manaakhah-sub002/internal/config"
	auditRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/audit"
	availabilityRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/availability"
	bookingRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/booking"
	businessRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/business"
	outboxRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/outbox"
	"github.com/kameqazi1/Manaakhah-sub002/internal/integrations/broker"
	availabilityService "github.com/kameqazi1/Manaakhah-sub002/internal/service/availability"
	bookingsService "github.com/kameqazi1/Manaakhah-sub002/internal/service/bookings"
	outboxService "github.com/kameqazi1/Manaakhah-sub002/internal/service/outbox"
	createBookingUC "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/get_available_slots"
	getEffectiveHoursUC "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/get_effective_hours"
	transitionBookingUC "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/transition_booking"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/dbmetrics"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/metrics"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/txmanager"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP API и outbox релей",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
		if err != nil {
			return err
		}
		defer log.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, log)
	},
}

// redisPinger адаптирует redis.Client к healthz.Pinger
type redisPinger struct {
	rdb *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info("Starting booking service...")

	// Метрики (nil-коллектор превращает все вызовы в no-op)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// База данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB, log)

	// Репозитории
	businessRepository := businessRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)
	auditRepository := auditRepo.NewRepository(wrappedDB)

	// Брокер событий и outbox релей
	publisher, err := broker.New(broker.Config{
		Kind:     cfg.Events.Kind,
		Brokers:  cfg.Events.Brokers,
		URL:      cfg.Events.URL,
		Exchange: cfg.Events.Exchange,
		Breaker: broker.BreakerSettings{
			MaxRequests:      cfg.Events.BreakerHalfOpen,
			Interval:         time.Duration(cfg.Events.BreakerInterval) * time.Second,
			Timeout:          time.Duration(cfg.Events.BreakerTimeout) * time.Second,
			FailureThreshold: cfg.Events.BreakerFailures,
		},
	}, log)
	if err != nil {
		return fmt.Errorf("init event publisher: %w", err)
	}
	defer publisher.Close()

	relay := outboxService.NewRelay(outboxRepository, publisher, txMgr, metricsCollector, log, outboxService.Config{
		PollInterval: cfg.Events.PollIntervalDuration(),
		BatchSize:    cfg.Events.BatchSize,
		MaxAttempts:  cfg.Events.MaxAttempts,
	})

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, businessRepository, auditRepository, log)
	availabilitySvc := availabilityService.NewService(businessRepository, availabilityRepository, auditRepository, txMgr, log)

	// Use cases
	getEffectiveHoursUseCase := getEffectiveHoursUC.NewUseCase(businessRepository, availabilityRepository, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		businessRepository,
		availabilityRepository,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		businessRepository,
		availabilityRepository,
		outboxRepository,
		auditRepository,
		txMgr,
		metricsCollector,
		log,
	)
	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		businessRepository,
		outboxRepository,
		auditRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Handlers
	getEffectiveHours := getEffectiveHoursHandler.NewHandler(getEffectiveHoursUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getOpenWeekdays := getOpenWeekdaysHandler.NewHandler(availabilitySvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingAudit := getBookingAuditHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)
	listExceptions := listExceptionsHandler.NewHandler(availabilitySvc, log)
	upsertException := upsertExceptionHandler.NewHandler(availabilitySvc, log)
	deleteException := deleteExceptionHandler.NewHandler(availabilitySvc, log)

	healthChecks := map[string]healthz.Pinger{"postgres": db}

	// Лимитер записи бронирований: Redis, если настроен, иначе в памяти процесса
	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Addr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer rdb.Close()
			healthChecks["redis"] = redisPinger{rdb: rdb}
			limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.WindowDuration(), "booking-rl")
			log.Info("Rate limiter: redis at %s", cfg.Redis.Addr)
		} else {
			local := middleware.NewLocalLimiter(cfg.RateLimit.Requests, cfg.RateLimit.WindowDuration(), cfg.RateLimit.Burst)
			go local.RunCleanup(ctx, cfg.RateLimit.WindowDuration())
			limiter = local
			log.Info("Rate limiter: in-process")
		}
	}

	health := healthz.NewHandler(healthChecks, log)

	// Роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	r.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/businesses/{businessId}/hours", getEffectiveHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/open-weekdays", getOpenWeekdays.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/exceptions", listExceptions.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования (запись ограничена лимитером) ---
	writes := protected.PathPrefix("").Subrouter()
	if limiter != nil {
		writes.Use(middleware.RateLimit(limiter, metricsCollector, log, cfg.RateLimit.FailOpen))
	}
	writes.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	writes.HandleFunc("/bookings/{bookingId}/status", transitionBooking.Handle).Methods(http.MethodPatch)

	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/audit", getBookingAudit.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для владельца) ---
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/availability", updateAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/exceptions/{date}", upsertException.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/exceptions/{date}", deleteException.Handle).Methods(http.MethodDelete)

	handler := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})(r)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	relayCtx, stopRelay := context.WithCancel(ctx)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relay.Run(relayCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или падение сервера
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			log.Error("Server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopRelay()
	<-relayDone

	log.Info("Server stopped gracefully")
	return nil
}
