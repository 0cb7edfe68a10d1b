package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	addFeedbackHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/add_feedback"
	addInternalNoteHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/add_internal_note"
	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_services"
	getStatisticsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_statistics"
	listBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_bookings"
	recordNotificationHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/record_notification"
	rescheduleBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_booking"
	updateStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_status"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	statisticsService "github.com/m04kA/SMC-AppointmentService/internal/service/statistics"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/idgen"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/slotlock"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// database общий интерфейс *dbmetrics.DB и *dbmetrics.Plain
type database interface {
	dbmetrics.DBExecutor
	txmanager.TxBeginner
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	// Каталог услуг
	serviceCatalog, err := cfg.Catalog()
	if err != nil {
		log.Fatal("Failed to build service catalog: %v", err)
	}
	log.Info("Service catalog loaded: %d services", len(cfg.Services))

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обертка с метриками или без
	var executor database
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		executor = dbmetrics.NewPlain(db)
	}

	appointmentRepository := appointmentRepo.NewRepository(executor)
	txMgr := txmanager.NewTransactionManager(executor).WithMaxRetries(cfg.Database.TxMaxRetries)

	// Блокировки слотов: Redis, если включен
	var (
		locker      slotlock.Locker = slotlock.NoopLocker{}
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = slotlock.NewRedisClient(context.Background(),
			cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		locker = slotlock.NewRedisLocker(redisClient, time.Duration(cfg.Redis.LockTTLMillis)*time.Millisecond).
			WithWait(time.Duration(cfg.Redis.LockWaitMillis) * time.Millisecond)
		log.Info("Redis slot locks enabled (addr=%s, ttl=%dms, wait=%dms)",
			cfg.Redis.Addr, cfg.Redis.LockTTLMillis, cfg.Redis.LockWaitMillis)
	} else {
		log.Warn("Redis disabled, relying on database constraints only")
	}

	conflictMode := domain.ConflictMode(cfg.Booking.ConflictMode)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, txMgr, log)
	statisticsSvc := statisticsService.NewService(appointmentRepository, txMgr, cfg.Booking.Timezone, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		serviceCatalog,
		txMgr,
		locker,
		idgen.Generator{},
		createBookingUC.Options{
			Timezone:             cfg.Booking.Timezone,
			AdvanceBookingMonths: cfg.Booking.AdvanceBookingMonths,
			ConflictMode:         conflictMode,
			ICSDomain:            cfg.Booking.ICSDomain,
		},
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		appointmentRepository,
		txMgr,
		locker,
		rescheduleBookingUC.Options{
			AdvanceBookingMonths: cfg.Booking.AdvanceBookingMonths,
			ConflictMode:         conflictMode,
			ICSDomain:            cfg.Booking.ICSDomain,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		serviceCatalog,
		cfg.Booking.Timezone,
		log,
	)

	// Инициализируем handlers
	getServices := getServicesHandler.NewHandler(serviceCatalog, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, cfg.Booking.Timezone, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(appointmentSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(appointmentSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(appointmentSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	addFeedback := addFeedbackHandler.NewHandler(appointmentSvc, log)
	listBookings := listBookingsHandler.NewHandler(appointmentSvc, log)
	getStatistics := getStatisticsHandler.NewHandler(statisticsSvc, log)
	updateStatus := updateStatusHandler.NewHandler(appointmentSvc, log)
	addInternalNote := addInternalNoteHandler.NewHandler(appointmentSvc, log)
	recordNotification := recordNotificationHandler.NewHandler(appointmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services", getServices.Handle).Methods(http.MethodGet)

	// available-slots регистрируется раньше /{appointmentId}
	api.HandleFunc("/appointments/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	api.HandleFunc("/appointments", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}/feedback", addFeedback.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (Bearer JWT с ролью admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Auth.JWTSecret))

	admin.HandleFunc("/appointments", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/stats", getStatistics.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{appointmentId}/notes", addInternalNote.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{appointmentId}/notifications", recordNotification.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
