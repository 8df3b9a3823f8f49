package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/unitwise/unitwise/internal/agent"
	"github.com/unitwise/unitwise/internal/app"
	"github.com/unitwise/unitwise/internal/app/toolsetup"
	"github.com/unitwise/unitwise/internal/config"
	"github.com/unitwise/unitwise/internal/constants/prompts"
	"github.com/unitwise/unitwise/internal/conversion"
	"github.com/unitwise/unitwise/internal/tools"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

const defaultQuestion = "How many meters are in 10 feet?"

// One-shot conversion agent: runs a single turn against the configured
// model and prints the streamed answer plus the final agent state.
// No database, redis or auth is involved.
func main() {
	question := flag.String("q", defaultQuestion, "question to ask the agent")
	showState := flag.Bool("state", false, "print the agent state after the turn")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := Logger.New(cfg.Debug)

	factory := tools.NewToolFactory(&tools.ToolDependencies{
		Converter: conversion.NewConverter(logger),
		Logger:    logger,
	})
	if err := toolsetup.RegisterToolBuilders(factory); err != nil {
		log.Fatalf("Failed to register tools: %v", err)
	}
	registry := toolsystem.NewMemoryRegistry()
	if err := factory.BuildAll(registry); err != nil {
		log.Fatalf("Failed to build tools: %v", err)
	}

	mux, err := app.NewLLMRouterFactory(cfg, logger).CreateRouter()
	if err != nil {
		log.Fatalf("Failed to create LLM router: %v", err)
	}

	sysPrompt := prompts.RenderAgentPrompt(registry.Descriptors())
	ag := agent.New(
		cfg.Agent,
		cfg.Middleware,
		registry,
		toolsystem.NewExecutor(),
		*mux,
		sysPrompt.Content,
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tracker := agent.NewTracker(logger)
	model := adapters.ContractSelectedModel{
		Provider: cfg.LLM.Provider,
		Name:     cfg.LLM.Model,
	}
	msgs := []adapters.ContractMessage{
		{
			Role:      adapters.USER,
			Content:   *question,
			CreatedAt: time.Now(),
		},
	}

	outCh := make(adapters.ContractResponseChannel, 32)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for batch := range outCh {
			for _, d := range batch {
				if d.Msg != nil {
					fmt.Print(d.Msg.Content)
				}
			}
		}
	}()

	res, err := ag.RunTurn(ctx, tracker, model, msgs, &outCh)
	wg.Wait()
	fmt.Println()
	if err != nil {
		log.Fatalf("Turn failed: %v", err)
	}

	if *showState {
		out, err := json.MarshalIndent(res.State, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode state: %v", err)
		}
		if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
			log.Fatalf("Failed to write state: %v", err)
		}
	}
}
