package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/unitwise/unitwise/internal/agent"
	"github.com/unitwise/unitwise/internal/config"
	"github.com/unitwise/unitwise/internal/conversion"
	"github.com/unitwise/unitwise/internal/tools"
	"github.com/unitwise/unitwise/internal/tools/catalog"
	"github.com/unitwise/unitwise/internal/types"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
	"github.com/unitwise/unitwise/pkg/assistant/router"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

// memRepo keeps the conversation in memory for service tests.
type memRepo struct {
	mu          sync.Mutex
	conv        types.Conversation
	messages    []types.Message
	conversions []types.ConversionRecord
}

func newMemRepo(ownerID uuid.UUID) *memRepo {
	return &memRepo{conv: types.Conversation{ID: uuid.New(), OwnerID: ownerID, CreatedAt: time.Now()}}
}

func (r *memRepo) RetrieveUserConversation(ctx context.Context, userID uuid.UUID, cfr *types.ConvFetchRequest) (*types.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv := r.conv
	conv.Messages = append([]types.Message(nil), r.messages...)
	return &conv, nil
}

func (r *memRepo) CreateMessage(ctx context.Context, userId uuid.UUID, msg types.Message) (*types.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.Id == uuid.Nil {
		msg.Id = uuid.New()
	}
	r.messages = append(r.messages, msg)
	return &msg, nil
}

func (r *memRepo) FetchUserMessages(ctx context.Context, userId uuid.UUID, start, end int64) ([]types.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Message(nil), r.messages...), nil
}

func (r *memRepo) FetchMessage(ctx context.Context, msgId uuid.UUID) (*types.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.Id == msgId {
			return &m, nil
		}
	}
	return nil, errors.New("message not found")
}

func (r *memRepo) CreateConversionRecord(ctx context.Context, conversationID uuid.UUID, rec types.ConversionRecord) (*types.ConversionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.conversions = append(r.conversions, rec)
	return &rec, nil
}

func (r *memRepo) FetchConversionRecords(ctx context.Context, conversationID uuid.UUID, limit int) ([]types.ConversionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.ConversionRecord(nil), r.conversions...), nil
}

func (r *memRepo) conversionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conversions)
}

// replayAdapter plays one canned delta batch per model call, repeating
// the last batch once the script runs out.
type replayAdapter struct {
	script [][]adapters.ContractResponseDelta
	call   int
}

func (s *replayAdapter) Provider() string { return "scripted" }

func (s *replayAdapter) Process(
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

func replyDelta(content string) []adapters.ContractResponseDelta {
	return []adapters.ContractResponseDelta{{
		Msg: &adapters.ContractMessage{
			Role:      adapters.ASSISTANT,
			Content:   content,
			CreatedAt: time.Now(),
		},
		CreatedAt: time.Now(),
	}}
}

func convCallDelta(id string, args map[string]any) []adapters.ContractResponseDelta {
	return []adapters.ContractResponseDelta{{
		ToolCalls: []adapters.ContractToolCall{{
			ID:        id,
			CreatedAt: time.Now(),
			ToolName:  "feet_to_meters",
			Arguments: args,
		}},
		CreatedAt: time.Now(),
	}}
}

func testService(t *testing.T, maxSteps int, script [][]adapters.ContractResponseDelta) (ConversationService, *memRepo, uuid.UUID) {
	t.Helper()
	logger := Logger.New(true)

	factory := tools.NewToolFactory(&tools.ToolDependencies{
		Converter: conversion.NewConverter(logger),
		Logger:    logger,
	})
	if err := factory.RegisterBuilder("feet_to_meters", &catalog.FeetToMetersToolBuilder{}); err != nil {
		t.Fatalf("registering builder: %v", err)
	}
	registry := toolsystem.NewMemoryRegistry()
	if err := factory.BuildAll(registry); err != nil {
		t.Fatalf("building tools: %v", err)
	}

	model := adapters.ContractSelectedModel{Provider: "scripted", Name: "test-model"}
	mux := router.New(
		&router.ConfiguredRP{Primary: model},
		[]router.AdapterPack{{
			Adapter:      &replayAdapter{script: script},
			Provider:     "scripted",
			DefaultModel: model,
		}},
		logger,
	)

	ag := agent.New(
		config.AgentConfig{MaxSteps: maxSteps, MaxToolCallLimit: 100},
		config.MiddlewareConfig{ToolMaxRetries: 1},
		registry,
		toolsystem.NewExecutor(),
		mux,
		"You are a helpful assistant.",
		logger,
	)

	userID := uuid.New()
	repo := newMemRepo(userID)
	return New(ag, model, repo, logger), repo, userID
}

func TestProcessMsgStepLimitSurfacesDistinctError(t *testing.T) {
	// the model keeps requesting tools, so the step ceiling must abort
	svc, _, userID := testService(t, 2, [][]adapters.ContractResponseDelta{
		convCallDelta("call-1", map[string]any{"feet": 10.0}),
	})

	in := types.CreateMessage{Text: "convert forever", Timestamp: time.Now()}
	_, err := svc.ProcessMsg(context.Background(), userID, in.ToMessage(userID))
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("expected ErrStepLimit, got %v", err)
	}
	if errors.Is(err, ErrProcMsg) {
		t.Error("step limit abort should not be reported as the generic failure")
	}
}

func TestProcessMsgPersistsReplyAndConversion(t *testing.T) {
	svc, repo, userID := testService(t, 6, [][]adapters.ContractResponseDelta{
		convCallDelta("call-1", map[string]any{"feet": 10.0}),
		replyDelta("10 feet is 3.048 meters."),
	})

	in := types.CreateMessage{Text: "Convert 10 feet to meters", Timestamp: time.Now()}
	reply, err := svc.ProcessMsg(context.Background(), userID, in.ToMessage(userID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != "10 feet is 3.048 meters." {
		t.Errorf("unexpected reply text %q", reply.Text)
	}

	// the reply and conversion record land asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for repo.conversionCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	recs, err := repo.FetchConversionRecords(context.Background(), uuid.Nil, 0)
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected 1 stored conversion record, got %d (err %v)", len(recs), err)
	}
	if recs[0].ToolName != "feet_to_meters" {
		t.Errorf("unexpected tool name %q", recs[0].ToolName)
	}
	if diff := recs[0].OutputValue - 3.048; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("unexpected output value %v", recs[0].OutputValue)
	}
}
