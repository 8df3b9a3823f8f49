package server

import (
	"github.com/gin-gonic/gin"
	"github.com/unitwise/unitwise/internal/config"
	"github.com/unitwise/unitwise/internal/domains/conversation"
	"github.com/unitwise/unitwise/internal/domains/user"
	"github.com/unitwise/unitwise/internal/handlers"
	"github.com/unitwise/unitwise/internal/handlers/websocket"
	"github.com/unitwise/unitwise/pkg/Logger"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

// Dependencies is everything the HTTP layer needs, built once in app setup.
type Dependencies struct {
	Configs             *config.Settings
	Logger              *Logger.Logger
	UserService         user.UserService
	ConversationService conversation.ConversationService
	Registry            toolsystem.Registry
}

func NewServerDependencies(
	cfg *config.Settings,
	logger *Logger.Logger,
	userService user.UserService,
	conversationService conversation.ConversationService,
	registry toolsystem.Registry,
) Dependencies {
	return Dependencies{
		Configs:             cfg,
		Logger:              logger,
		UserService:         userService,
		ConversationService: conversationService,
		Registry:            registry,
	}
}

// InitializeRoutes mounts middleware, REST routes and the websocket endpoint.
func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	r.Use(handlers.CORSMiddleware())
	r.Use(handlers.RequestLoggerMiddleware(dep.Logger))
	r.Use(handlers.ErrorHandlerMiddleware(dep.Logger))

	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")

	userHandler := handlers.NewUserHandler(dep.UserService, dep.Logger)
	userHandler.RegisterUserRoutes(v1)

	convoHandler := handlers.NewConvoHandler(dep.ConversationService, dep.Registry, dep.Logger)
	convoHandler.RegisterConversationRoutes(v1, dep.UserService)

	wsHandler := websocket.NewWebSocketHandler(dep.Logger, dep.ConversationService, dep.UserService)
	wsHandler.RegisterRoutes(r)
}
