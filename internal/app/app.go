package app

import (
	"fmt"

	"github.com/go-redis/redis"
	"github.com/unitwise/unitwise/internal/agent"
	"github.com/unitwise/unitwise/internal/app/toolsetup"
	"github.com/unitwise/unitwise/internal/config"
	"github.com/unitwise/unitwise/internal/constants/prompts"
	"github.com/unitwise/unitwise/internal/conversion"
	"github.com/unitwise/unitwise/internal/domains/conversation"
	"github.com/unitwise/unitwise/internal/domains/user"
	convoRepo "github.com/unitwise/unitwise/internal/repository/conversation"
	userRepo "github.com/unitwise/unitwise/internal/repository/user"
	"github.com/unitwise/unitwise/internal/server"
	"github.com/unitwise/unitwise/internal/tools"
	"github.com/unitwise/unitwise/internal/types"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
	"github.com/unitwise/unitwise/pkg/assistant/router"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config    *config.Settings
	Logger    *Logger.Logger
	DB        *gorm.DB
	RC        *redis.Client
	LLMRouter *router.Mux
	Registry  toolsystem.Registry
	Agent     *agent.Agent
	// repos
	ConversationRepo types.ConversationRepository
	UserRepo         user.UserRepository
	ServerDeps       server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(cfg *config.Settings, logger *Logger.Logger, db *gorm.DB, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		RC:     rc,
	}

	if err := app.setupDependencies(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies() error {
	// 1. Tool registry with the conversion catalog
	if err := a.setupTools(); err != nil {
		return err
	}

	// 2. LLM providers and router
	if err := a.setupLLMRouter(); err != nil {
		return err
	}

	// 3. Repositories
	a.ConversationRepo = convoRepo.NewGormConvoRepo(a.DB, a.RC, a.Config.Redis.MsgTTL())
	a.UserRepo = userRepo.NewGormUserRepo(a.DB)

	// JWT settings from config
	jwtSecret := a.Config.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		a.Logger.Warn("JWT secret not configured, using default (not secure for production)")
	}

	userService := user.NewUserService(a.UserRepo, a.Logger, jwtSecret, a.Config.Auth.TokenTTL())

	// 4. Agent over the registry, with the tool listing baked into
	// the system prompt
	sysPrompt := prompts.RenderAgentPrompt(a.Registry.Descriptors())
	a.Agent = agent.New(
		a.Config.Agent,
		a.Config.Middleware,
		a.Registry,
		toolsystem.NewExecutor(),
		*a.LLMRouter,
		sysPrompt.Content,
		a.Logger,
	)

	model := adapters.ContractSelectedModel{
		Provider: a.Config.LLM.Provider,
		Name:     a.Config.LLM.Model,
	}
	conversationService := conversation.New(a.Agent, model, a.ConversationRepo, a.Logger)

	a.ServerDeps = server.NewServerDependencies(
		a.Config,
		a.Logger,
		userService,
		conversationService,
		a.Registry,
	)

	return nil
}

// setupTools builds the conversion tool registry
func (a *App) setupTools() error {
	factory := tools.NewToolFactory(&tools.ToolDependencies{
		Converter: conversion.NewConverter(a.Logger),
		Logger:    a.Logger,
	})
	if err := toolsetup.RegisterToolBuilders(factory); err != nil {
		return fmt.Errorf("failed to register tool builders: %w", err)
	}

	registry := toolsystem.NewMemoryRegistry()
	if err := factory.BuildAll(registry); err != nil {
		return fmt.Errorf("failed to build tools: %w", err)
	}

	a.Registry = registry
	a.Logger.Infof("tool registry ready with %d tool(s)", len(registry.List()))
	return nil
}

// setupLLMRouter configures the LLM providers and creates the router
func (a *App) setupLLMRouter() error {
	factory := NewLLMRouterFactory(a.Config, a.Logger)

	mux, err := factory.CreateRouter()
	if err != nil {
		return err
	}

	a.LLMRouter = mux
	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}
