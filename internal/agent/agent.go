package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/unitwise/unitwise/internal/config"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
	"github.com/unitwise/unitwise/pkg/assistant/router"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

// how long one model round may take before the read loop gives up
const roundTimeout = 30 * time.Second

// Agent drives conversion turns: it streams the conversation to a model,
// executes any tool calls the model requests one at a time, and loops
// until the model answers in plain text or a ceiling is hit.
type Agent struct {
	cfg      config.AgentConfig
	mwCfg    config.MiddlewareConfig
	registry toolsystem.Registry
	executor toolsystem.Executor
	mux      router.Mux
	logger   *Logger.Logger
	hooks    []BeforeModelHook

	systemPrompt string
}

// TurnResult is everything one completed turn produced.
type TurnResult struct {
	Final adapters.ContractMessage
	State AgentState
	// full contract history of the turn, tool messages included
	Transcript []adapters.ContractMessage
	// every successful conversion this turn, oldest first
	Conversions []ConversionOutcome
}

// ConversionOutcome pairs a successful tool run with its result map.
type ConversionOutcome struct {
	Tool   string
	Result map[string]any
}

// sessionBuffer keeps the active processing context of one RunTurn call
type sessionBuffer struct {
	allMsgs []adapters.ContractMessage
	mu      sync.Mutex
}

func (s *sessionBuffer) Append(msgs ...adapters.ContractMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allMsgs = append(s.allMsgs, msgs...)
}

func (s *sessionBuffer) Snapshot() []adapters.ContractMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]adapters.ContractMessage, len(s.allMsgs))
	copy(out, s.allMsgs)
	return out
}

// roundTally collects what the tool handlers produced within one round.
type roundTally struct {
	lastResult  map[string]any
	conversions []ConversionOutcome
}

func New(
	cfg config.AgentConfig,
	mwCfg config.MiddlewareConfig,
	registry toolsystem.Registry,
	executor toolsystem.Executor,
	mux router.Mux,
	systemPrompt string,
	logger *Logger.Logger,
	hooks ...BeforeModelHook,
) *Agent {
	return &Agent{
		cfg:          cfg,
		mwCfg:        mwCfg,
		registry:     registry,
		executor:     executor,
		mux:          mux,
		systemPrompt: systemPrompt,
		logger:       logger,
		hooks:        hooks,
	}
}

// RunTurn processes one user turn against the tracker's conversation.
// msgs is the history plus the new user message. When outCh is non-nil,
// assistant text deltas stream onto it; RunTurn closes it on return.
func (a *Agent) RunTurn(
	ctx context.Context,
	tracker *Tracker,
	model adapters.ContractSelectedModel,
	msgs []adapters.ContractMessage,
	outCh *adapters.ContractResponseChannel,
) (*TurnResult, error) {
	var closeOnce sync.Once
	defer func() {
		if outCh != nil {
			closeOnce.Do(func() { close(*outCh) })
		}
	}()

	tracker.BumpTurn()
	machine := newTurnMachine(a.logger)

	session := &sessionBuffer{allMsgs: make([]adapters.ContractMessage, 0)}
	session.Append(msgs...)

	tally := &roundTally{}
	toolChain := Chain(
		a.execHandler(tally),
		ErrorInterceptor(tracker, a.logger),
		ToolRetry(a.mwCfg.ToolMaxRetries, a.logger),
	)

	queue := []adapters.ContractInput{a.nextInput(session, model)}
	machine.fire(ctx, eventRequest)

	var finalMsg *adapters.ContractMessage
	toolCallsCount := 0
	round := 0

	for len(queue) > 0 {
		if round >= a.cfg.MaxSteps {
			a.logger.Warnf("turn aborted after %d model rounds", round)
			return nil, fmt.Errorf("%w: %d rounds", ErrStepLimitExceeded, round)
		}

		currIn := queue[0]
		queue = queue[1:]
		a.logger.Infof("agent round %d, toolCallsCount=%d", round, toolCallsCount)

		for _, hook := range a.hooks {
			hook(ctx, currIn.Msgs)
		}

		assistantText, toolCalls, err := a.modelRound(ctx, currIn, outCh)
		if err != nil {
			return nil, err
		}

		if len(toolCalls) == 0 {
			if assistantText == "" {
				return nil, ErrNoFinalMessage
			}
			machine.fire(ctx, eventRespond)
			fm := adapters.ContractMessage{
				Role:      adapters.ASSISTANT,
				Content:   assistantText,
				CreatedAt: time.Now(),
			}
			session.Append(fm)
			tracker.TrackStep(Step{ID: currIn.ID, Assistant: &fm})
			finalMsg = &fm
			break
		}

		machine.fire(ctx, eventToolsRequested)

		if toolCallsCount+len(toolCalls) > a.cfg.MaxToolCallLimit {
			a.logger.Warnf("tool call ceiling %d reached", a.cfg.MaxToolCallLimit)
			return nil, fmt.Errorf("%w: tool call ceiling %d", ErrStepLimitExceeded, a.cfg.MaxToolCallLimit)
		}
		toolCallsCount += len(toolCalls)

		// replay entry so providers see the assistant requesting tools
		session.Append(adapters.ContractMessage{
			Role:      adapters.ASSISTANT,
			CreatedAt: time.Now(),
			ToolCalls: toolCalls,
		})

		// sequential on purpose: each tool result lands in history before
		// the next call runs, matching how the model ordered them
		records := make([]ToolCallRecord, 0, len(toolCalls))
		for _, tc := range toolCalls {
			records = append(records, ToolCallRecord{
				Tool:      tc.ToolName,
				Args:      tc.Arguments,
				CallID:    tc.ID,
				Timestamp: time.Now(),
			})
			toolMsg, err := toolChain(ctx, ToolRequest{Call: tc})
			if err != nil {
				// interceptor swallows tool errors; anything left is fatal
				return nil, fmt.Errorf("tool %s: %w", tc.ToolName, err)
			}
			if toolMsg != nil {
				session.Append(*toolMsg)
			}
		}
		machine.fire(ctx, eventToolsDone)

		tracker.TrackStep(Step{
			ID:        currIn.ID,
			ToolCalls: records,
			Result:    tally.lastResult,
		})

		machine.fire(ctx, eventContinue)
		queue = append(queue, a.nextInput(session, model))
		round++
	}

	if finalMsg == nil {
		return nil, ErrNoFinalMessage
	}
	if machine.current() != stateFinal {
		a.logger.Warnf("turn ended in state %s", machine.current())
	}

	if len(tally.conversions) > 0 {
		tracker.SetStructuredResponse(map[string]any{
			"answer":     finalMsg.Content,
			"conversion": tally.lastResult,
		})
	}

	return &TurnResult{
		Final:       *finalMsg,
		State:       tracker.State(),
		Transcript:  session.Snapshot(),
		Conversions: tally.conversions,
	}, nil
}

func (a *Agent) nextInput(session *sessionBuffer, model adapters.ContractSelectedModel) adapters.ContractInput {
	return adapters.ContractInput{
		ID:           uuid.NewString(),
		Msgs:         session.Snapshot(),
		ToolList:     a.registry.GetContractTools(),
		SystemPrompt: a.systemPrompt,
		HandlerModel: model,
	}
}

// modelRound streams one model call to completion and returns the text
// and tool calls it produced. Text after a tool call request is dropped.
func (a *Agent) modelRound(
	ctx context.Context,
	input adapters.ContractInput,
	outCh *adapters.ContractResponseChannel,
) (string, []adapters.ContractToolCall, error) {
	roundCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	inputCh := make(adapters.ContractResponseChannel, 32)
	go a.processMsg(roundCtx, input, inputCh)

	toolCalls := make([]adapters.ContractToolCall, 0)
	messageBuffer := ""
	sawToolCalls := false
	var streamErr error

	timeout := time.NewTimer(roundTimeout)
	defer timeout.Stop()

	adapterDone := false
	for !adapterDone {
		select {
		case elems, ok := <-inputCh:
			if !ok {
				adapterDone = true
				break
			}
			for _, elem := range elems {
				if elem.Error != nil {
					streamErr = elem.Error
					continue
				}
				if elem.Done {
					adapterDone = true
					break
				}
				if len(elem.ToolCalls) > 0 {
					toolCalls = append(toolCalls, elem.ToolCalls...)
					sawToolCalls = true
					messageBuffer = ""
					continue
				}
				if sawToolCalls {
					continue
				}
				if elem.Msg != nil {
					messageBuffer += elem.Msg.Content
					if outCh != nil {
						*outCh <- []adapters.ContractResponseDelta{elem}
					}
				}
			}
		case <-timeout.C:
			return "", nil, fmt.Errorf("model round timed out after %s", roundTimeout)
		case <-roundCtx.Done():
			return "", nil, roundCtx.Err()
		}
	}

	if streamErr != nil && messageBuffer == "" && len(toolCalls) == 0 {
		return "", nil, streamErr
	}
	return messageBuffer, toolCalls, nil
}

func (a *Agent) processMsg(ctx context.Context, input adapters.ContractInput, rc adapters.ContractResponseChannel) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Errorf("recovered from panic in processMsg: %v", r)
		}
	}()

	// mux.Stream closes the channel
	if err := a.mux.Stream(ctx, input, &rc); err != nil {
		a.logger.Errorf("mux streaming error: %v", err)
	}
}

// execHandler is the innermost tool handler: it runs the call through the
// executor and renders the result map as the tool message content.
func (a *Agent) execHandler(tally *roundTally) ToolHandlerFunc {
	return func(ctx context.Context, req ToolRequest) (*adapters.ContractMessage, error) {
		result, err := a.executor.Execute(ctx, a.registry, req.Call)
		if err != nil {
			return nil, err
		}

		tally.lastResult = result.Response
		tally.conversions = append(tally.conversions, ConversionOutcome{
			Tool:   req.Call.ToolName,
			Result: result.Response,
		})

		content := "tool completed"
		if result.Response != nil {
			if jsonBytes, jerr := json.Marshal(result.Response); jerr == nil {
				content = string(jsonBytes)
			}
		}
		return &adapters.ContractMessage{
			Role:       adapters.TOOL,
			Content:    content,
			CreatedAt:  time.Now(),
			ToolCallID: req.Call.ID,
			ToolName:   req.Call.ToolName,
		}, nil
	}
}
