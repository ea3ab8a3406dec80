package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"plot-service/internal/adapters/cartmemory"
	logger_adapter "plot-service/internal/adapters/logger"
	"plot-service/internal/adapters/mailer"
	"plot-service/internal/adapters/notifier"
	"plot-service/internal/adapters/pdf"
	postgres_adapter "plot-service/internal/adapters/postgres"
	rabbitmq_adapter "plot-service/internal/adapters/rabbitmq"
	"plot-service/internal/adapters/rest"
	"plot-service/internal/adapters/smsgateway"
	"plot-service/internal/configs"
	"plot-service/internal/constants"
	"plot-service/internal/core/port"
	"plot-service/internal/core/usecase"
	"plot-service/pkg/fluentlogger"
	"plot-service/pkg/postgres"
	"plot-service/pkg/rabbitmq/rabbitmq_common"
	"plot-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server

	smsDispatcher *notifier.SMSDispatcher
	amqpProducer  *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	logger        port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. НИЗКОУРОВНЕВЫЕ ЗАВИСИМОСТИ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	parcelRepo, err := postgres_adapter.NewParcelRepository(dbPool)
	if err != nil {
		appLogger.Error("Failed to create parcel repository", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create parcel repository: %w", err)
	}

	interestRepo, err := postgres_adapter.NewInterestRepository(dbPool)
	if err != nil {
		appLogger.Error("Failed to create interest repository", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create interest repository: %w", err)
	}

	cartStore := cartmemory.NewStore(baseLogger)
	mailClient := mailer.NewGatewayClient(appConfig.Gateways.MailURL)
	smsClient := smsgateway.NewClient(appConfig.Gateways.SMSURL)
	smsDispatcher := notifier.NewSMSDispatcher(smsClient, appConfig.SMS.StaggerDelay, appConfig.SMS.QueueSize, baseLogger)
	docGenerator := pdf.NewGenerator()

	// Публикация событий опциональна: без брокера сервис работает как раньше,
	// просто без downstream-уведомлений.
	var eventsPublisher port.EventPublisherPort
	var amqpProducer *rabbitmq_producer.Publisher
	if appConfig.RabbitMQ.Enabled {
		connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, rabbitmq_adapter.NewPkgLoggerBridge(baseLogger))
		if err != nil {
			appLogger.Error("Failed to create RabbitMQ connection manager", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create rabbitmq connection manager: %w", err)
		}

		amqpProducer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.PlotEventsExchange,
			ExchangeType:             "topic",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger),
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create RabbitMQ publisher", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create rabbitmq publisher: %w", err)
		}

		eventsPublisher, err = rabbitmq_adapter.NewPlotEventsPublisher(amqpProducer, constants.RoutingKeyStatusChanged)
		if err != nil {
			appLogger.Error("Failed to create plot events publisher", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create plot events publisher: %w", err)
		}
		appLogger.Info("RabbitMQ event publishing enabled.", nil)
	}

	appLogger.Info("All persistence and gateway adapters initialized.", nil)

	// --- 3. USE CASES ---
	getParcelsUseCase := usecase.NewGetParcelsUseCase(parcelRepo, appConfig.Database.BatchLimit)
	getDetailsUseCase := usecase.NewGetParcelDetailsUseCase(parcelRepo)
	reserveOrBuyUseCase := usecase.NewReserveOrBuyUseCase(parcelRepo, docGenerator, mailClient, smsDispatcher, cartStore, eventsPublisher)
	checkoutUseCase := usecase.NewCheckoutCartUseCase(parcelRepo, docGenerator, mailClient, smsDispatcher, cartStore, eventsPublisher)
	addToCartUseCase := usecase.NewAddToCartUseCase(parcelRepo, cartStore)
	removeFromCartUseCase := usecase.NewRemoveFromCartUseCase(cartStore)
	getCartUseCase := usecase.NewGetCartUseCase(cartStore)
	setStatusUseCase := usecase.NewAdminSetStatusUseCase(parcelRepo, eventsPublisher)
	setPriceUseCase := usecase.NewAdminSetPriceUseCase(parcelRepo)
	importUseCase := usecase.NewImportParcelsUseCase(parcelRepo)
	registerInterestUseCase := usecase.NewRegisterInterestUseCase(interestRepo, mailClient, appConfig.Gateways.ManagerEmail)

	// --- 4. REST API ---
	parcelHandler := rest.NewParcelHandler(getParcelsUseCase, getDetailsUseCase, reserveOrBuyUseCase, registerInterestUseCase)
	cartHandler := rest.NewCartHandler(addToCartUseCase, removeFromCartUseCase, getCartUseCase, checkoutUseCase)
	adminHandler := rest.NewAdminHandler(setStatusUseCase, setPriceUseCase, importUseCase)
	apiServer := rest.NewServer(appConfig.Rest.PORT, parcelHandler, cartHandler, adminHandler, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	application := &App{
		config:    appConfig,
		dbPool:    dbPool,
		apiServer: apiServer,

		smsDispatcher: smsDispatcher,
		amqpProducer:  amqpProducer,
		fluentClient:  fluentClient,
		logger:        appLogger,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		// Диспетчер дожидается уже поставленных в очередь серий SMS.
		if a.smsDispatcher != nil {
			if err := a.smsDispatcher.Close(); err != nil {
				a.logger.Error("Error during SMS dispatcher shutdown", err, nil)
			}
		}

		if a.amqpProducer != nil {
			if err := a.amqpProducer.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ publisher", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
