package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/unitwise/unitwise/internal/config"
	"github.com/unitwise/unitwise/internal/conversion"
	"github.com/unitwise/unitwise/internal/tools"
	"github.com/unitwise/unitwise/internal/tools/catalog"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
	"github.com/unitwise/unitwise/pkg/assistant/router"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

// scriptedAdapter replays a canned batch of deltas per Process call.
type scriptedAdapter struct {
	script [][]adapters.ContractResponseDelta
	call   int
}

func (s *scriptedAdapter) Provider() string { return "scripted" }

func (s *scriptedAdapter) Process(
	ctx context.Context,
	input adapters.ContractInput,
	rc *adapters.ContractResponseChannel,
) adapters.ContractResponse {
	idx := s.call
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	s.call++
	*rc <- s.script[idx]
	*rc <- []adapters.ContractResponseDelta{{Done: true, CreatedAt: time.Now()}}
	return adapters.ContractResponse{ID: input.ID, Done: true}
}

func textDelta(content string) []adapters.ContractResponseDelta {
	return []adapters.ContractResponseDelta{{
		Msg: &adapters.ContractMessage{
			Role:      adapters.ASSISTANT,
			Content:   content,
			CreatedAt: time.Now(),
		},
		CreatedAt: time.Now(),
	}}
}

func toolCallDelta(id, name string, args map[string]any) []adapters.ContractResponseDelta {
	return []adapters.ContractResponseDelta{{
		ToolCalls: []adapters.ContractToolCall{{
			ID:        id,
			CreatedAt: time.Now(),
			ToolName:  name,
			Arguments: args,
		}},
		CreatedAt: time.Now(),
	}}
}

func testRegistry(t *testing.T, logger *Logger.Logger) toolsystem.Registry {
	t.Helper()
	factory := tools.NewToolFactory(&tools.ToolDependencies{
		Converter: conversion.NewConverter(logger),
		Logger:    logger,
	})
	builders := []struct {
		name    string
		builder tools.ToolBuilder
	}{
		{"feet_to_meters", &catalog.FeetToMetersToolBuilder{}},
		{"meters_to_feet", &catalog.MetersToFeetToolBuilder{}},
		{"celsius_to_fahrenheit", &catalog.CelsiusToFahrenheitToolBuilder{}},
		{"fahrenheit_to_celsius", &catalog.FahrenheitToCelsiusToolBuilder{}},
	}
	registry := toolsystem.NewMemoryRegistry()
	for _, b := range builders {
		if err := factory.RegisterBuilder(b.name, b.builder); err != nil {
			t.Fatalf("register builder %s: %v", b.name, err)
		}
	}
	if err := factory.BuildAll(registry); err != nil {
		t.Fatalf("build tools: %v", err)
	}
	return registry
}

func testAgent(t *testing.T, script [][]adapters.ContractResponseDelta) (*Agent, adapters.ContractSelectedModel) {
	t.Helper()
	logger := Logger.New(true)
	registry := testRegistry(t, logger)

	model := adapters.ContractSelectedModel{Provider: "scripted", Name: "test-model"}
	mux := router.New(
		&router.ConfiguredRP{Primary: model},
		[]router.AdapterPack{{
			Adapter:      &scriptedAdapter{script: script},
			Provider:     "scripted",
			DefaultModel: model,
		}},
		logger,
	)

	ag := New(
		config.AgentConfig{MaxSteps: 6, MaxToolCallLimit: 10},
		config.MiddlewareConfig{ToolMaxRetries: 1},
		registry,
		toolsystem.NewExecutor(),
		mux,
		"You are a helpful assistant.",
		logger,
		LogMessages(logger),
	)
	return ag, model
}

func userMsg(text string) []adapters.ContractMessage {
	return []adapters.ContractMessage{{
		Role:      adapters.USER,
		Content:   text,
		CreatedAt: time.Now(),
	}}
}

func TestRunTurnWithToolCall(t *testing.T) {
	ag, model := testAgent(t, [][]adapters.ContractResponseDelta{
		toolCallDelta("call-1", "feet_to_meters", map[string]any{"feet": 10.0}),
		textDelta("10 feet is 3.048 meters."),
	})
	tracker := NewTracker(Logger.New(true))

	res, err := ag.RunTurn(context.Background(), tracker, model, userMsg("How many meters are in 10 feet?"), nil)
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}

	if res.Final.Content != "10 feet is 3.048 meters." {
		t.Errorf("unexpected final message %q", res.Final.Content)
	}
	if res.State.ToolCallCount != 1 {
		t.Errorf("expected 1 tool call, got %d", res.State.ToolCallCount)
	}
	if res.State.CurrentTool != "feet_to_meters" {
		t.Errorf("current tool = %q", res.State.CurrentTool)
	}
	if res.State.HasErrors {
		t.Errorf("unexpected errors: %v", res.State.Errors)
	}
	got, ok := res.State.LastConversionResult["output_value"].(float64)
	if !ok || got < 3.0479 || got > 3.0481 {
		t.Errorf("last conversion result = %v", res.State.LastConversionResult)
	}
	if len(res.Conversions) != 1 || res.Conversions[0].Tool != "feet_to_meters" {
		t.Errorf("conversions = %+v", res.Conversions)
	}
	if res.State.StructuredResponse == nil {
		t.Error("structured response not set after a conversion turn")
	}

	var sawToolMsg bool
	for _, m := range res.Transcript {
		if m.Role == adapters.TOOL && m.ToolName == "feet_to_meters" {
			sawToolMsg = true
		}
	}
	if !sawToolMsg {
		t.Error("transcript missing the tool result message")
	}
}

func TestRunTurnPlainAnswer(t *testing.T) {
	ag, model := testAgent(t, [][]adapters.ContractResponseDelta{
		textDelta("Feet measure length; Celsius measures temperature."),
	})
	tracker := NewTracker(Logger.New(true))

	res, err := ag.RunTurn(context.Background(), tracker, model, userMsg("What do these units measure?"), nil)
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if res.State.ToolCallCount != 0 {
		t.Errorf("expected no tool calls, got %d", res.State.ToolCallCount)
	}
	if res.State.TurnCount != 1 {
		t.Errorf("turn count = %d", res.State.TurnCount)
	}
	if res.State.StructuredResponse != nil {
		t.Error("structured response should stay unset without conversions")
	}
}

func TestRunTurnToolErrorBecomesMessage(t *testing.T) {
	ag, model := testAgent(t, [][]adapters.ContractResponseDelta{
		toolCallDelta("call-1", "feet_to_meters", map[string]any{}),
		textDelta("I need a feet or miles value to convert."),
	})
	tracker := NewTracker(Logger.New(true))

	res, err := ag.RunTurn(context.Background(), tracker, model, userMsg("convert to meters"), nil)
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}

	if !res.State.HasErrors {
		t.Fatal("expected state to record the validation error")
	}
	if res.State.Errors[0] != "Feet or Miles is required" {
		t.Errorf("error text = %q", res.State.Errors[0])
	}

	var toolMsg string
	for _, m := range res.Transcript {
		if m.Role == adapters.TOOL {
			toolMsg = m.Content
		}
	}
	if toolMsg != "Error: Feet or Miles is required" {
		t.Errorf("tool message = %q", toolMsg)
	}
}

func TestRunTurnStepLimit(t *testing.T) {
	// model keeps demanding tools and never answers
	ag, model := testAgent(t, [][]adapters.ContractResponseDelta{
		toolCallDelta("call-x", "celsius_to_fahrenheit", map[string]any{"celsius": 0.0}),
	})
	tracker := NewTracker(Logger.New(true))

	_, err := ag.RunTurn(context.Background(), tracker, model, userMsg("loop forever"), nil)
	if !errors.Is(err, ErrStepLimitExceeded) {
		t.Fatalf("expected ErrStepLimitExceeded, got %v", err)
	}
}

func TestRunTurnStreamsDeltas(t *testing.T) {
	ag, model := testAgent(t, [][]adapters.ContractResponseDelta{
		textDelta("3.048 meters."),
	})
	tracker := NewTracker(Logger.New(true))

	outCh := make(adapters.ContractResponseChannel, 8)
	done := make(chan string)
	go func() {
		var sb strings.Builder
		for batch := range outCh {
			for _, d := range batch {
				if d.Msg != nil {
					sb.WriteString(d.Msg.Content)
				}
			}
		}
		done <- sb.String()
	}()

	_, err := ag.RunTurn(context.Background(), tracker, model, userMsg("10 feet?"), &outCh)
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if got := <-done; got != "3.048 meters." {
		t.Errorf("streamed text = %q", got)
	}
}
