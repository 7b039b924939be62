package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"medichat-web/internal/config"
	"medichat-web/internal/controller"
	"medichat-web/internal/handler"
	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/repository/contract"
	"medichat-web/internal/repository/implementation"
	"medichat-web/internal/repository/memory"
	"medichat-web/internal/repository/redisrepo"
	"medichat-web/internal/service"
	"medichat-web/internal/session"
	"medichat-web/internal/web"
	"medichat-web/internal/websocket"
	"medichat-web/pkg/medapi"

	pktNats "medichat-web/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	OAuthController controller.IOAuthController
	ChatController  controller.IChatController
	MediaController controller.IMediaController
	InfoController  controller.IInfoController
	PageController  controller.IPageController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	LiveHandler  *handler.LiveHandler
	WebSocketHub *websocket.Hub

	OAuthService service.IOAuthService
	Logger       logger.ILogger

	closers []func()
}

// Options overrides collaborators, used by tests.
type Options struct {
	API    medapi.API
	Logger logger.ILogger
}

// NewContainer wires every service once. db may be nil, in which case
// service users live in memory.
func NewContainer(db *gorm.DB, cfg *config.Config, opts Options) (*Container, error) {
	// 1. Core Facades
	sysLogger := opts.Logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Container", "NATS publisher setup failed", map[string]interface{}{"error": err})
		}
		if natsPub != nil {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("Container", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn("Container", "Failed to connect to Redis", map[string]interface{}{"error": err})
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var kv contract.KeyValueRepository
	switch cfg.App.StoreDriver {
	case "redis":
		if rdb == nil {
			return nil, errors.New("STORE_DRIVER=redis requires REDIS_URL")
		}
		kv = redisrepo.NewKeyValueRepository(rdb)
	case "", "memory":
		kv = memory.NewKeyValueRepository()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.App.StoreDriver)
	}

	var users contract.ServiceUserRepository
	if db != nil {
		users = implementation.NewServiceUserRepository(db)
	} else {
		users = memory.NewServiceUserRepository()
	}

	api := opts.API
	if api == nil {
		api = medapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	}

	// WebSocket Hub
	wsLogger := sysLogger
	if opts.Logger == nil {
		wsLogger = logger.NewIsolatedLogger(cfg.App.LiveLogFilePath)
	}
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 4. Services
	local := session.NewLocalStore(kv, sysLogger)
	vault := session.NewVault(session.NewTokenStore(), local)

	publisherService := service.NewPublisherService(cfg.App.ActivityTopic, pubSub, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.ActivityTopic, forwarder, sysLogger)

	authService := service.NewAuthService(api, vault, publisherService, c.WebSocketHub, sysLogger)
	chatService := service.NewChatService(api, local, publisherService, c.WebSocketHub, sysLogger)
	mediaService := service.NewMediaService(api, cfg.Backend.BaseURL, publisherService, c.WebSocketHub, sysLogger)
	c.OAuthService = service.NewOAuthService(cfg.Auth, users, publisherService, sysLogger)
	infoService := service.NewInfoService(users)

	pages, err := web.NewPages()
	if err != nil {
		return nil, err
	}

	// 5. Controllers
	secure := cfg.App.CookieSecure
	c.AuthController = controller.NewAuthController(authService, secure)
	c.OAuthController = controller.NewOAuthController(c.OAuthService, secure, sysLogger)
	c.ChatController = controller.NewChatController(chatService)
	c.MediaController = controller.NewMediaController(mediaService)
	c.InfoController = controller.NewInfoController(infoService)
	c.PageController = controller.NewPageController(pages, authService, chatService, mediaService, secure)
	c.LiveHandler = handler.NewLiveHandler(c.WebSocketHub, chatService, mediaService, sysLogger)

	return c, nil
}

// Close releases broker and cache connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
