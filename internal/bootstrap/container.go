package bootstrap

import (
	"context"
	"log"

	"bolt-sync-be/internal/config"
	"bolt-sync-be/internal/controller"
	"bolt-sync-be/internal/handler"
	"bolt-sync-be/internal/pkg/logger"
	"bolt-sync-be/internal/repository/unitofwork"
	"bolt-sync-be/internal/service"
	"bolt-sync-be/internal/websocket"
	"bolt-sync-be/pkg/github"
	"bolt-sync-be/pkg/llm/factory"

	pktNats "bolt-sync-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SyncController    controller.ISyncController
	ProjectController controller.IProjectController
	ChatController    controller.IChatController
	DeployController  controller.IDeployController
	AdminController   controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	SyncEventHandler *handler.SyncEventHandler
	WebSocketHub     *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS (optional; single-instance deployments leave NATS_URL empty)
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		}
	}

	// Redis (optional; used for cross-instance websocket fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// GitHub (optional; deploys fail with a clear error when unset)
	var githubClient *github.Client
	if cfg.GitHub.Token != "" && cfg.GitHub.Owner != "" {
		githubClient = github.NewClient(context.Background(), cfg.GitHub.Token, cfg.GitHub.Owner)
	} else {
		log.Println("[WARN] GitHub credentials not set; deploy endpoint disabled")
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(cfg.Keys.FilesSyncedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.FilesSyncedTopic,
		wsHub,
	)

	// Bridge events from other instances/services to local sockets.
	if natsSub != nil {
		eventBridge := service.NewEventBridgeService(natsSub, wsHub, wsLogger)
		go eventBridge.Start()
	}

	syncService := service.NewSyncService(uowFactory, publisherService, natsPub)
	projectService := service.NewProjectService(uowFactory)
	chatService := service.NewChatService(uowFactory, llmProvider, natsPub)
	deployService := service.NewDeployService(uowFactory, githubClient, publisherService, natsPub)
	adminService := service.NewAdminService(sysLogger)

	syncEventHandler := handler.NewSyncEventHandler(wsHub, wsLogger)

	return &Container{
		SyncEventHandler: syncEventHandler,
		WebSocketHub:     wsHub,

		SyncController:    controller.NewSyncController(syncService),
		ProjectController: controller.NewProjectController(projectService),
		ChatController:    controller.NewChatController(chatService),
		DeployController:  controller.NewDeployController(deployService),
		AdminController:   controller.NewAdminController(adminService),

		ConsumerService: consumerService,
	}
}
