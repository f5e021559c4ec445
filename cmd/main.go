package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/cancel_booking"
	checkSlotHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/check_slot"
	createBookingHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/get_booking"
	listBookingsHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/list_bookings"
	updateBookingStatusHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-SpaBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SpaBookingService/internal/config"
	"github.com/m04kA/SMC-SpaBookingService/internal/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/gate"
	bookingRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-SpaBookingService/internal/service/bookings"
	checkSlotUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/check_slot"
	createBookingUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SpaBookingService/migrations"
	"github.com/m04kA/SMC-SpaBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
	"github.com/m04kA/SMC-SpaBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/txmanager"
)

func main() {
	// Путь к конфигу можно переопределить через CONFIG_PATH
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
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

	log.Info("Starting SMC-SpaBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}

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

	// Применяем миграции
	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Обёртка над соединением: с метриками пишет статистику запросов и пула,
	// без метрик работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Гейт "проверить и записать" общий для создания, отмены и смены статуса
	var bookingGate gate.Gate = gate.NewFIFO(cfg.Booking.GateTimeout())
	if cfg.Metrics.Enabled {
		bookingGate = gate.NewInstrumented(bookingGate, metricsCollector, cfg.Metrics.ServiceName)
	}

	rules := availability.Rules{
		SlotStepMinutes:      cfg.Booking.SlotStepMinutes,
		OvertimeMinutes:      cfg.Booking.OvertimeMinutes,
		HorizonDays:          cfg.Booking.HorizonDays,
		DefaultBufferMinutes: cfg.Booking.DefaultBufferMinutes,
		Location:             location,
	}
	loader := availability.NewLoader(catalogRepository, catalogRepository, bookingRepository, rules)

	// Публикация событий бронирований
	publisher, closePublisher, err := newPublisher(cfg.Events, log)
	if err != nil {
		log.Fatal("Failed to initialize events publisher: %v", err)
	}
	dispatcher := events.NewDispatcher(publisher, cfg.Events.QueueSize, log).
		WithMetrics(metricsCollector, cfg.Metrics.ServiceName)
	log.Info("Events dispatcher started (driver=%s, queue=%d)", cfg.Events.Driver, cfg.Events.QueueSize)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		bookingGate,
		txMgr,
		dispatcher,
		location,
		log,
	)

	// Инициализируем use cases
	checkSlotUseCase := checkSlotUC.NewUseCase(
		catalogRepository,
		catalogRepository,
		loader,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		catalogRepository,
		loader,
		bookingGate,
		txMgr,
		dispatcher,
		log,
	).WithMetrics(metricsCollector, cfg.Metrics.ServiceName)

	// Инициализируем handlers
	routes := bookingRoutes{
		checkSlot:     checkSlotHandler.NewHandler(checkSlotUseCase, log),
		createBooking: createBookingHandler.NewHandler(createBookingUseCase, log),
		listBookings:  listBookingsHandler.NewHandler(bookingSvc, log),
		getBooking:    getBookingHandler.NewHandler(bookingSvc, log),
		cancelBooking: cancelBookingHandler.NewHandler(bookingSvc, log),
		updateStatus:  updateBookingStatusHandler.NewHandler(bookingSvc, log),
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", healthHandler(wrappedDB)).Methods(http.MethodGet)

	// Бизнес-маршруты доступны и без префикса, и под /api/v1
	api := r.PathPrefix("/api/v1").Subrouter()
	root := r.PathPrefix("").Subrouter()

	if cfg.RateLimit.Enabled {
		trusted, err := cfg.RateLimit.TrustedPrefixes()
		if err != nil {
			log.Fatal("Invalid rate_limit.trusted_proxies: %v", err)
		}
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, trusted)
		api.Use(limiter.Middleware)
		root.Use(limiter.Middleware)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	routes.register(api)
	routes.register(root)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки уже поставленных в очередь событий
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn("Events dispatcher closed with error: %v", err)
	}
	if closePublisher != nil {
		if err := closePublisher.Close(); err != nil {
			log.Warn("Failed to close events publisher: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

type bookingRoutes struct {
	checkSlot     *checkSlotHandler.Handler
	createBooking *createBookingHandler.Handler
	listBookings  *listBookingsHandler.Handler
	getBooking    *getBookingHandler.Handler
	cancelBooking *cancelBookingHandler.Handler
	updateStatus  *updateBookingStatusHandler.Handler
}

func (br bookingRoutes) register(r *mux.Router) {
	// Проверка свободных слотов на дату
	r.HandleFunc("/bookings/check-slot", br.checkSlot.Handle).Methods(http.MethodPost)

	// Создание бронирования
	r.HandleFunc("/bookings", br.createBooking.Handle).Methods(http.MethodPost)

	// Список бронирований с фильтрами
	r.HandleFunc("/bookings", br.listBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	r.HandleFunc("/bookings/{bookingId}", br.getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	r.HandleFunc("/bookings/{bookingId}/cancel", br.cancelBooking.Handle).Methods(http.MethodPatch)

	// Смена статуса бронирования
	r.HandleFunc("/bookings/{bookingId}/status", br.updateStatus.Handle).Methods(http.MethodPatch)
}

// newPublisher выбирает транспорт событий по конфигу.
// Второе значение закрывается при остановке, может быть nil.
func newPublisher(cfg config.EventsConfig, log *logger.Logger) (events.Publisher, io.Closer, error) {
	switch cfg.Driver {
	case "", "none":
		return events.NopPublisher{}, nil, nil
	case "webhook":
		client := notifier.NewClient(cfg.Webhook.URL, time.Duration(cfg.Webhook.Timeout)*time.Second, log)
		return client, nil, nil
	case "kafka":
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		return publisher, publisher, nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := events.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return events.NewRedisPublisher(client, cfg.Redis.Channel), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

type pinger interface {
	PingContext(ctx context.Context) error
}

func healthHandler(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
