package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/unitwise/unitwise/internal/agent"
	"github.com/unitwise/unitwise/internal/types"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

var (
	ErrProcMsg = errors.New("error processing msg")
	// ErrStepLimit marks a turn aborted by the agent's step ceiling.
	ErrStepLimit = errors.New("conversation step limit exceeded")
)

type ConversationService interface {
	RetrieveConversation(ctx context.Context, userID uuid.UUID) (*types.Conversation, error)
	ProcessMsg(ctx context.Context, userID uuid.UUID, msg types.Message) (*types.Message, error)
	ProcessMsgAsStream(ctx context.Context, userID uuid.UUID, msg types.Message, outCh *adapters.ContractResponseChannel) (*types.Message, error)
	// AgentStateFor reports the accumulated tool/error state of the
	// user's conversation.
	AgentStateFor(userID uuid.UUID) agent.AgentState
	ListConversions(ctx context.Context, userID uuid.UUID, limit int) ([]types.ConversionRecord, error)
}

type conversationService struct {
	ag         *agent.Agent
	model      adapters.ContractSelectedModel
	repository ConversationRepository
	logger     *Logger.Logger

	mu       sync.Mutex
	trackers map[uuid.UUID]*agent.Tracker
}

func (c *conversationService) trackerFor(userID uuid.UUID) *agent.Tracker {
	c.mu.Lock()
	defer c.mu.Unlock()
	tr, ok := c.trackers[userID]
	if !ok {
		tr = agent.NewTracker(c.logger)
		c.trackers[userID] = tr
	}
	return tr
}

// ProcessMsg implements ConversationService.
func (c *conversationService) ProcessMsg(ctx context.Context, userID uuid.UUID, msg types.Message) (*types.Message, error) {
	return c.process(ctx, userID, msg, nil)
}

// ProcessMsgAsStream implements ConversationService.
func (c *conversationService) ProcessMsgAsStream(ctx context.Context, userID uuid.UUID, msg types.Message, outCh *adapters.ContractResponseChannel) (*types.Message, error) {
	return c.process(ctx, userID, msg, outCh)
}

func (c *conversationService) process(ctx context.Context, userID uuid.UUID, msg types.Message, outCh *adapters.ContractResponseChannel) (*types.Message, error) {
	conv, err := c.repository.RetrieveUserConversation(ctx, userID, &types.ConvFetchRequest{})
	if err != nil {
		return nil, fmt.Errorf("couldn't load conversation: %w", err)
	}
	msg.ConversationID = conv.ID

	// store user msg
	nmsg, err := c.repository.CreateMessage(ctx, userID, msg)
	if err != nil {
		return nil, fmt.Errorf("couldn't save msg: %w", err)
	}

	history := types.MessagesToContractMessages(conv.Messages)
	history = append(history, nmsg.ToContractMessage())

	tracker := c.trackerFor(userID)
	res, err := c.ag.RunTurn(ctx, tracker, c.model, history, outCh)
	if err != nil {
		c.logger.Errorf("proc msg: %v", err)
		if errors.Is(err, agent.ErrStepLimitExceeded) {
			return nil, ErrStepLimit
		}
		return nil, ErrProcMsg
	}

	reply := types.ContractMsgToMessage(&res.Final, userID, uuid.New())
	reply.ConversationID = conv.ID
	reply.Tags = []string{"llm_response"}

	// persist reply and this turn's conversions off the request path
	go func() {
		ctxn, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := c.repository.CreateMessage(ctxn, userID, reply); err != nil {
			c.logger.Warnf("storing reply: %v", err)
		}
		for _, outcome := range res.Conversions {
			rec := conversionRecordFromMap(conv.ID, outcome.Result, outcome.Tool)
			if _, err := c.repository.CreateConversionRecord(ctxn, conv.ID, rec); err != nil {
				c.logger.Warnf("storing conversion record: %v", err)
			}
		}
	}()

	return &reply, nil
}

// RetrieveConversation implements ConversationService.
func (c *conversationService) RetrieveConversation(ctx context.Context, userID uuid.UUID) (*types.Conversation, error) {
	return c.repository.RetrieveUserConversation(ctx, userID, &types.ConvFetchRequest{})
}

// AgentStateFor implements ConversationService.
func (c *conversationService) AgentStateFor(userID uuid.UUID) agent.AgentState {
	return c.trackerFor(userID).State()
}

// ListConversions implements ConversationService.
func (c *conversationService) ListConversions(ctx context.Context, userID uuid.UUID, limit int) ([]types.ConversionRecord, error) {
	conv, err := c.repository.RetrieveUserConversation(ctx, userID, &types.ConvFetchRequest{})
	if err != nil {
		return nil, err
	}
	return c.repository.FetchConversionRecords(ctx, conv.ID, limit)
}

func conversionRecordFromMap(conversationID uuid.UUID, m map[string]any, toolName string) types.ConversionRecord {
	rec := types.ConversionRecord{
		ID:             uuid.New(),
		ConversationID: conversationID,
		ToolName:       toolName,
		Timestamp:      time.Now(),
	}
	if v, ok := m["input_value"].(float64); ok {
		rec.InputValue = v
	}
	if v, ok := m["input_unit"].(string); ok {
		rec.InputUnit = v
	}
	if v, ok := m["output_value"].(float64); ok {
		rec.OutputValue = v
	}
	if v, ok := m["output_unit"].(string); ok {
		rec.OutputUnit = v
	}
	if raw, ok := m["timestamp"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			rec.Timestamp = ts
		}
	}
	return rec
}

func New(
	ag *agent.Agent,
	model adapters.ContractSelectedModel,
	repository ConversationRepository,
	logger *Logger.Logger,
) ConversationService {
	return &conversationService{
		ag:         ag,
		model:      model,
		repository: repository,
		logger:     logger,
		trackers:   make(map[uuid.UUID]*agent.Tracker),
	}
}
