package app

import (
	"context"
	"fmt"
	"net/http"

	server "github.com/admin/astro-match/internal/adapters/primary/http"
	alerterController "github.com/admin/astro-match/internal/adapters/primary/http/controllers/alerter"
	birthChartController "github.com/admin/astro-match/internal/adapters/primary/http/controllers/birthChart"
	chartsController "github.com/admin/astro-match/internal/adapters/primary/http/controllers/charts"
	chatController "github.com/admin/astro-match/internal/adapters/primary/http/controllers/chat"
	healthcheckController "github.com/admin/astro-match/internal/adapters/primary/http/controllers/healthcheck"
	locationController "github.com/admin/astro-match/internal/adapters/primary/http/controllers/location"
	matchesController "github.com/admin/astro-match/internal/adapters/primary/http/controllers/matches"
	metricsController "github.com/admin/astro-match/internal/adapters/primary/http/controllers/metrics"
	profileController "github.com/admin/astro-match/internal/adapters/primary/http/controllers/profile"
	kafkaConsumerAdapter "github.com/admin/astro-match/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/admin/astro-match/internal/adapters/primary/kafka/handlers"
	alerterAdapter "github.com/admin/astro-match/internal/adapters/secondary/alerter"
	astroApiAdapter "github.com/admin/astro-match/internal/adapters/secondary/astroApi"
	kafkaAdapter "github.com/admin/astro-match/internal/adapters/secondary/kafka"
	llmAdapter "github.com/admin/astro-match/internal/adapters/secondary/llm"
	"github.com/admin/astro-match/internal/adapters/secondary/locationiq"
	"github.com/admin/astro-match/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astro-match/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/astro-match/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/astro-match/internal/adapters/secondary/storage/s3"
	"github.com/admin/astro-match/internal/ports/cache"
	"github.com/admin/astro-match/internal/ports/kafka"
	"github.com/admin/astro-match/internal/ports/repository"
	"github.com/admin/astro-match/internal/ports/service"
	"github.com/admin/astro-match/internal/ports/storage"
	chatMessageRepo "github.com/admin/astro-match/internal/repository/chatMessage"
	matchRepo "github.com/admin/astro-match/internal/repository/match"
	profileRepo "github.com/admin/astro-match/internal/repository/profile"
	savedChartRepo "github.com/admin/astro-match/internal/repository/savedChart"
	alerterService "github.com/admin/astro-match/internal/services/alerter"
	astroApiService "github.com/admin/astro-match/internal/services/astroApi"
	jobScheduler "github.com/admin/astro-match/internal/services/jobs"
	avatarUsecase "github.com/admin/astro-match/internal/usecases/avatar"
	chartUsecase "github.com/admin/astro-match/internal/usecases/chart"
	chatUsecase "github.com/admin/astro-match/internal/usecases/chat"
	locationUsecase "github.com/admin/astro-match/internal/usecases/location"
	matchUsecase "github.com/admin/astro-match/internal/usecases/match"
	profileUsecase "github.com/admin/astro-match/internal/usecases/profile"
	"github.com/jmoiron/sqlx"
)

type Dependencies struct {
	DB             *sqlx.DB
	HTTPServer     *http.Server
	WarmupProducer *kafkaAdapter.Producer
	KafkaConsumers map[string]*kafkaConsumerAdapter.Consumer
	Cache          cache.Cache
	JobScheduler   *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, err := a.initPostgres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	repos := a.initRepositories(db)
	external := a.initExternalServices()
	warmupProducer := a.initWarmupProducer()

	useCases, err := a.initUseCases(repos, external, warmupProducer)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init use cases: %w", err)
	}

	consumers := a.initKafkaConsumers(useCases.Chart)

	httpServer, err := a.initHTTP(db, external, useCases)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init http server: %w", err)
	}

	scheduler := a.initJobScheduler(external.Alerter, useCases.Avatar, external.Storage)

	return &Dependencies{
		DB:             db,
		HTTPServer:     httpServer,
		WarmupProducer: warmupProducer,
		KafkaConsumers: consumers,
		Cache:          external.Cache,
		JobScheduler:   scheduler,
	}, nil
}

// repositories содержит инициализированные репозитории
type repositories struct {
	Profile     repository.IProfileRepo
	Match       repository.IMatchRepo
	SavedChart  repository.ISavedChartRepo
	ChatMessage repository.IChatMessageRepo
}

func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	return &repositories{
		Profile:     profileRepo.New(persistenceLayer, a.Log),
		Match:       matchRepo.New(persistenceLayer, a.Log),
		SavedChart:  savedChartRepo.New(persistenceLayer, a.Log),
		ChatMessage: chatMessageRepo.New(persistenceLayer, a.Log),
	}
}

// externalServices внешние сервисы; Storage nil, если бакет не настроен
type externalServices struct {
	AstroAPI service.IAstroAPIService
	Location service.ILocationService
	LLM      service.ILLMService
	Alerter  service.IAlerterService
	Cache    cache.Cache
	Storage  storage.IS3Client
	HasAlert bool
}

func (a *App) initExternalServices() *externalServices {
	services := &externalServices{}

	astroAPIClient := astroApiAdapter.NewClient(a.Cfg.AstroAPI, a.Log)
	services.AstroAPI = astroApiService.New(astroAPIClient)
	if a.Cfg.AstroAPI.ApiKey == "" {
		a.Log.Warn("astro API key is not set, chart requests will fail")
	}

	services.Location = locationiq.NewClient(a.Cfg.LocationIQ, a.Log)
	services.LLM = llmAdapter.NewClient(a.Cfg.LLM, a.Log)

	// Alerter - опциональный, без клиента алерты только логируются
	if a.Cfg.Alerter.Enabled() {
		services.Alerter = alerterService.New(alerterAdapter.NewClient(a.Cfg.Alerter, a.Log), a.Log)
		services.HasAlert = true
	} else {
		a.Log.Warn("alerter is not configured, alerts will only be logged")
		services.Alerter = alerterService.New(nil, a.Log)
	}

	// Redis - опциональный, без него кэш карт живёт в памяти процесса
	if a.Cfg.Redis.Enabled() {
		redisClient, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			a.Log.Warn("failed to init redis cache, falling back to in-memory cache", "error", err)
		} else {
			services.Cache = redisAdapter.NewClient(redisClient, a.Cfg.Redis.KeyPrefix)
			a.Log.Info("redis cache connected successfully")
		}
	}
	if services.Cache == nil {
		services.Cache = inmemory.NewCache()
	}

	// S3 - опциональный, без него аватарки отключены
	if a.Cfg.S3.Enabled() {
		minioClient, err := a.Cfg.S3.NewClient()
		if err != nil {
			a.Log.Warn("failed to init s3 storage, avatars disabled", "error", err)
		} else {
			services.Storage = s3Adapter.NewClient(minioClient, a.Cfg.S3, a.Log)
			a.Log.Info("s3 storage connected successfully", "bucket", a.Cfg.S3.Bucket)
		}
	} else {
		a.Log.Warn("s3 storage is not configured, avatars disabled")
	}

	return services
}

// initWarmupProducer nil, если топик прогрева не настроен
func (a *App) initWarmupProducer() *kafkaAdapter.Producer {
	cfg := a.Cfg.Kafka.Find(kafkaAdapter.ChartWarmupTopicName)
	if cfg == nil || cfg.Topic == "" {
		a.Log.Warn("kafka chart warmup topic is not configured, warmup events disabled")
		return nil
	}

	producer, err := kafkaAdapter.NewProducer(cfg, a.Log)
	if err != nil {
		a.Log.Warn("failed to create kafka producer, warmup events disabled", "error", err)
		return nil
	}
	return producer
}

// initKafkaConsumers консьюмер поднимается для каждого конфига с consumer group
func (a *App) initKafkaConsumers(charts *chartUsecase.Service) map[string]*kafkaConsumerAdapter.Consumer {
	consumers := make(map[string]*kafkaConsumerAdapter.Consumer)

	for _, kafkaCfg := range a.Cfg.Kafka.List {
		if kafkaCfg.Config.ConsumerGroup == "" {
			continue
		}

		handler := a.createHandlerForTopic(kafkaCfg.Name, charts)
		if handler == nil {
			a.Log.Warn("no handler for kafka topic, skipping consumer", "name", kafkaCfg.Name)
			continue
		}

		consumer, err := kafkaConsumerAdapter.NewConsumer(kafkaCfg.Config, handler, a.Log)
		if err != nil {
			a.Log.Warn("failed to create kafka consumer", "error", err, "name", kafkaCfg.Name)
			continue
		}
		consumers[kafkaCfg.Name] = consumer
	}

	return consumers
}

func (a *App) createHandlerForTopic(name string, charts *chartUsecase.Service) kafka.MessageHandler {
	switch name {
	case kafkaAdapter.ChartWarmupTopicName:
		return kafkaHandlers.NewChartWarmupHandler(charts, a.Log)
	default:
		return nil
	}
}

type useCases struct {
	Chart    *chartUsecase.Service
	Profile  *profileUsecase.Service
	Avatar   *avatarUsecase.Service
	Match    *matchUsecase.Service
	Chat     *chatUsecase.Service
	Location *locationUsecase.Service
}

func (a *App) initUseCases(
	repos *repositories,
	external *externalServices,
	warmupProducer *kafkaAdapter.Producer,
) (*useCases, error) {
	chartCfg := a.Cfg.Chart
	if chartCfg == nil {
		chartCfg = &chartUsecase.Config{}
	}

	charts, err := chartUsecase.New(
		chartCfg,
		repos.Profile,
		repos.SavedChart,
		external.AstroAPI,
		external.Cache,
		a.Log,
	)
	if err != nil {
		return nil, err
	}

	// интерфейс с nil-указателем внутри не равен nil, поэтому передаём nil явно
	var producer kafka.IChartWarmupProducer
	if warmupProducer != nil {
		producer = warmupProducer
	}

	return &useCases{
		Chart:    charts,
		Profile:  profileUsecase.New(repos.Profile, charts, producer, a.Log),
		Avatar:   avatarUsecase.New(repos.Profile, external.Storage, a.Log),
		Match:    matchUsecase.New(repos.Match, repos.Profile, a.Log),
		Chat:     chatUsecase.New(repos.ChatMessage, external.LLM, a.Log),
		Location: locationUsecase.New(external.Location, a.Log),
	}, nil
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(db *sqlx.DB, external *externalServices, uc *useCases) (*http.Server, error) {
	controllers := []server.Controller{
		healthcheckController.New(db, a.Log),
		metricsController.New(),
		birthChartController.New(external.AstroAPI, a.Log),
		chartsController.New(uc.Chart, a.Log),
		profileController.New(uc.Profile, uc.Avatar, a.Log),
		matchesController.New(uc.Match, a.Log),
		chatController.New(uc.Chat, a.Log),
		locationController.New(uc.Location, a.Log),
	}

	if external.HasAlert {
		controllers = append(controllers, alerterController.New(external.Alerter, a.Log))
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}

// initJobScheduler инициализирует планировщик джоб
func (a *App) initJobScheduler(
	alerterSvc service.IAlerterService,
	avatars *avatarUsecase.Service,
	s3 storage.IS3Client,
) *jobScheduler.Scheduler {
	if a.Cfg.Jobs != nil && !a.Cfg.Jobs.Enabled {
		a.Log.Info("job scheduler disabled")
		return nil
	}

	scheduler := jobScheduler.NewScheduler(a.Log, alerterSvc)

	// Чистка аватарок имеет смысл только при настроенном бакете
	if s3 != nil {
		hour := 4
		if a.Cfg.Jobs != nil {
			hour = a.Cfg.Jobs.AvatarSweepHour
		}
		scheduler.Register(jobScheduler.NewAvatarSweeper(avatars, hour, a.Log))
		a.Log.Info("avatar sweeper job registered", "hour_utc", hour)
	}

	return scheduler
}
