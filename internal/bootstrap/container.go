package bootstrap

import (
	"context"
	"time"

	"reflective-notes-be/internal/config"
	"reflective-notes-be/internal/controller"
	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/internal/repository/memory"
	redisRepo "reflective-notes-be/internal/repository/redis"
	"reflective-notes-be/internal/repository/unitofwork"
	"reflective-notes-be/internal/service"
	"reflective-notes-be/internal/websocket"
	"reflective-notes-be/pkg/analysis"
	"reflective-notes-be/pkg/annotate"
	"reflective-notes-be/pkg/editor"
	"reflective-notes-be/pkg/llm/factory"

	pktNats "reflective-notes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AnalyzerController controller.IAnalyzerController
	HistoryController  controller.IHistoryController
	UserController     controller.IUserController
	EditorController   controller.IEditorController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	closers []func()
}

// NewContainer wires the application. db may be nil, in which case notes and
// accounts live in process memory.
func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{}

	// 1. Document store
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		sysLogger.Warn("BOOTSTRAP", "No database configured, using in-memory store", nil)
		uowFactory = memory.NewRepositoryFactory()
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure
	rdb := connectRedis(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var identities editor.IdentityStore
	if rdb != nil && !cfg.Sync.LocalIdentities {
		identities = redisRepo.NewIdentityStore(rdb, cfg.Sync.SessionTTL)
	} else {
		identities = memory.NewIdentityStore(cfg.Sync.SessionTTL)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.SocketLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 4. Services
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.BaseURL, cfg.Ai.APIKey)
	if err != nil {
		return nil, err
	}
	sysLogger.Info("BOOTSTRAP", "Using LLM Provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})
	analyzerService := service.NewAnalyzerService(llmProvider, cfg.Ai.SystemPrompt, cfg.Ai.MaxTokens, sysLogger)

	var analyzer analysis.Analyzer
	if cfg.Analysis.EndpointURL != "" {
		analyzer = analysis.NewHTTPClient(cfg.Analysis.EndpointURL, cfg.Analysis.Timeout)
	} else {
		analyzer = service.NewLocalAnalyzer(analyzerService)
	}

	publisherService := service.NewPublisherService(service.NotePersistedTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		service.NotePersistedTopic,
		eventPublisher,
		c.WebSocketHub,
		sysLogger,
	)

	editorService := service.NewEditorService(
		analyzer,
		service.NewNoteStore(uowFactory),
		identities,
		publisherService,
		annotate.TriggerConfig{WindowSize: cfg.Analysis.WindowSize, Terminators: cfg.Analysis.Terminators},
		cfg.Sync.Debounce,
		wsLogger,
	)

	// 5. Controllers
	c.AnalyzerController = controller.NewAnalyzerController(analyzerService)
	c.HistoryController = controller.NewHistoryController(service.NewHistoryService(uowFactory))
	c.UserController = controller.NewUserController(service.NewProfileService(uowFactory))
	c.EditorController = controller.NewEditorController(editorService, c.WebSocketHub, wsLogger)

	return c, nil
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to Redis, running single instance", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	return rdb
}

// Close releases connections opened by NewContainer, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
