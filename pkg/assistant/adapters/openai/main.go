package openai

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

const ProviderName = "openai"

type openaiAdapter struct {
	client openai.Client
	cfg    adapters.ContractLLMCfg
	logger *Logger.Logger
}

// Provider implements adapters.ContractAdapter.
func (o *openaiAdapter) Provider() string { return ProviderName }

func (o *openaiAdapter) convertMsgs(input adapters.ContractInput) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(input.Msgs)+1)
	if input.SystemPrompt != "" {
		converted = append(converted, openai.SystemMessage(input.SystemPrompt))
	}
	for _, msg := range input.Msgs {
		switch msg.Role {
		case adapters.SYSTEM:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case adapters.ASSISTANT:
			if len(msg.ToolCalls) > 0 {
				converted = append(converted, assistantToolCallMsg(msg))
				continue
			}
			converted = append(converted, openai.AssistantMessage(msg.Content))
		case adapters.TOOL:
			converted = append(converted, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}
	return converted
}

// assistant messages that carried tool calls must be replayed with the
// original call IDs or the API rejects the following tool messages
func assistantToolCallMsg(msg adapters.ContractMessage) openai.ChatCompletionMessageParamUnion {
	calls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		rawArgs, err := json.Marshal(tc.Arguments)
		if err != nil {
			rawArgs = []byte("{}")
		}
		calls = append(calls, openai.ChatCompletionMessageToolCallParam{
			ID: tc.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.ToolName,
				Arguments: string(rawArgs),
			},
		})
	}
	asst := &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
	if msg.Content != "" {
		asst.Content.OfString = openai.String(msg.Content)
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: asst}
}

func (o *openaiAdapter) convertTools(tools []adapters.ContractTool) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  openai.FunctionParameters(t.ParametersSchema()),
			},
		})
	}
	return out
}

// Process implements adapters.ContractAdapter.
func (o *openaiAdapter) Process(ctx context.Context, input adapters.ContractInput, rc *adapters.ContractResponseChannel) adapters.ContractResponse {
	genID := uuid.NewString()
	startedAt := time.Now()

	params := openai.ChatCompletionNewParams{
		Messages:            o.convertMsgs(input),
		Model:               openai.ChatModel(input.HandlerModel.Name),
		Temperature:         openai.Float(o.cfg.Temperature),
		MaxCompletionTokens: openai.Int(o.cfg.MaxTokens),
	}
	if len(input.ToolList) > 0 {
		params.Tools = o.convertTools(input.ToolList)
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		o.logger.Errorf("openai completion failed: %v", err)
		return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Error: err}
	}
	if len(completion.Choices) == 0 {
		return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Error: errNoChoices}
	}

	choice := completion.Choices[0].Message
	now := time.Now()

	if len(choice.ToolCalls) > 0 {
		toolCalls := make([]adapters.ContractToolCall, 0, len(choice.ToolCalls))
		for _, tc := range choice.ToolCalls {
			args := make(map[string]any)
			if uerr := json.Unmarshal([]byte(tc.Function.Arguments), &args); uerr != nil {
				o.logger.Warnf("openai tool call %s: unparsable arguments: %v", tc.Function.Name, uerr)
				args = make(map[string]any)
			}
			toolCalls = append(toolCalls, adapters.ContractToolCall{
				ID:        tc.ID,
				CreatedAt: now,
				ToolName:  tc.Function.Name,
				Arguments: args,
			})
		}
		*rc <- []adapters.ContractResponseDelta{
			{ToolCalls: toolCalls, CreatedAt: now},
			{Done: true, CreatedAt: now},
		}
		return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Done: true}
	}

	*rc <- []adapters.ContractResponseDelta{
		{Msg: &adapters.ContractMessage{Role: adapters.ASSISTANT, Content: choice.Content, CreatedAt: now}, CreatedAt: now},
		{Done: true, CreatedAt: now},
	}
	return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Done: true}
}

func New(apiKey string, cfg adapters.ContractLLMCfg, logger *Logger.Logger) adapters.ContractAdapter {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &openaiAdapter{
		client: openai.NewClient(opts...),
		cfg:    cfg,
		logger: logger,
	}
}
