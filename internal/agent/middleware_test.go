package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unitwise/unitwise/internal/conversion"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

func testToolRequest() ToolRequest {
	return ToolRequest{Call: adapters.ContractToolCall{
		ID:        "call-1",
		CreatedAt: time.Now(),
		ToolName:  "feet_to_meters",
		Arguments: map[string]any{"feet": 10.0},
	}}
}

func okMessage(req ToolRequest) *adapters.ContractMessage {
	return &adapters.ContractMessage{
		Role:       adapters.TOOL,
		Content:    `{"output_value":3.048}`,
		CreatedAt:  time.Now(),
		ToolCallID: req.Call.ID,
		ToolName:   req.Call.ToolName,
	}
}

func TestToolRetryRecoversFromTransientFailure(t *testing.T) {
	logger := Logger.New(true)
	attempts := 0
	flaky := func(ctx context.Context, req ToolRequest) (*adapters.ContractMessage, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient failure")
		}
		return okMessage(req), nil
	}

	h := Chain(flaky, ToolRetry(2, logger))
	msg, err := h(context.Background(), testToolRequest())
	if err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if msg == nil || msg.Content != `{"output_value":3.048}` {
		t.Errorf("recovered result not passed through: %#v", msg)
	}
}

func TestToolRetryExhaustionBecomesErrorMessage(t *testing.T) {
	logger := Logger.New(true)
	tracker := NewTracker(logger)
	attempts := 0
	failing := func(ctx context.Context, req ToolRequest) (*adapters.ContractMessage, error) {
		attempts++
		return nil, errors.New("transient failure")
	}

	h := Chain(failing, ErrorInterceptor(tracker, logger), ToolRetry(2, logger))
	msg, err := h(context.Background(), testToolRequest())
	if err != nil {
		t.Fatalf("failure escaped the interceptor: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts before giving up, got %d", attempts)
	}
	if msg == nil || msg.Content != "Error: transient failure" {
		t.Fatalf("unexpected tool message: %#v", msg)
	}
	if msg.ToolCallID != "call-1" || msg.ToolName != "feet_to_meters" {
		t.Errorf("error message lost the call identity: %#v", msg)
	}
	state := tracker.State()
	if !state.HasErrors || len(state.Errors) != 1 || state.Errors[0] != "transient failure" {
		t.Errorf("tracker did not record the final failure: %#v", state.Errors)
	}
}

func TestToolRetrySkipsValidationFailures(t *testing.T) {
	logger := Logger.New(true)
	tracker := NewTracker(logger)
	attempts := 0
	invalid := func(ctx context.Context, req ToolRequest) (*adapters.ContractMessage, error) {
		attempts++
		return nil, &conversion.MissingRequiredFieldError{Message: "Feet or Miles is required"}
	}

	h := Chain(invalid, ErrorInterceptor(tracker, logger), ToolRetry(2, logger))
	msg, err := h(context.Background(), testToolRequest())
	if err != nil {
		t.Fatalf("failure escaped the interceptor: %v", err)
	}
	if attempts != 1 {
		t.Errorf("validation failure should not be retried, got %d attempts", attempts)
	}
	if msg == nil || msg.Content != "Error: Feet or Miles is required" {
		t.Errorf("unexpected tool message: %#v", msg)
	}
}

func TestToolRetryStopsOnCancelledContext(t *testing.T) {
	logger := Logger.New(true)
	attempts := 0
	failing := func(ctx context.Context, req ToolRequest) (*adapters.ContractMessage, error) {
		attempts++
		return nil, errors.New("transient failure")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := Chain(failing, ToolRetry(2, logger))
	if _, err := h(ctx, testToolRequest()); err == nil {
		t.Fatal("expected the failure to surface on a cancelled context")
	}
	if attempts != 1 {
		t.Errorf("cancelled context should stop retries, got %d attempts", attempts)
	}
}
