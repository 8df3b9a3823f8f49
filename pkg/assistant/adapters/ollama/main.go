package ollama

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ollama/ollama/api"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
	olp "github.com/unitwise/unitwise/pkg/assistant/providers/ollama"
)

const ProviderName = "ollama"

type ollamaAdapter struct {
	op     olp.OllamaProvider
	cfg    adapters.ContractLLMCfg
	logger *Logger.Logger
}

// Provider implements adapters.ContractAdapter.
func (o *ollamaAdapter) Provider() string { return ProviderName }

func (o *ollamaAdapter) convertMsgs(input adapters.ContractInput) []api.Message {
	converted := make([]api.Message, 0, len(input.Msgs)+1)
	if input.SystemPrompt != "" {
		converted = append(converted, api.Message{Role: string(adapters.SYSTEM), Content: input.SystemPrompt})
	}
	for _, msg := range input.Msgs {
		m := api.Message{Role: string(msg.Role), Content: msg.Content}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      tc.ToolName,
					Arguments: api.ToolCallFunctionArguments(tc.Arguments),
				},
			})
		}
		converted = append(converted, m)
	}
	return converted
}

func (o *ollamaAdapter) convertTools(tools []adapters.ContractTool) []api.Tool {
	out := make([]api.Tool, 0, len(tools))
	for _, t := range tools {
		var tool api.Tool
		tool.Type = "function"
		tool.Function.Name = t.Name
		tool.Function.Description = t.Description
		tool.Function.Parameters.Type = "object"
		tool.Function.Parameters.Required = t.ToolFunction.RequiredProps
		props := make(map[string]struct {
			Type        string   `json:"type"`
			Description string   `json:"description"`
			Enum        []string `json:"enum,omitempty"`
		}, len(t.ToolFunction.Parameters.Properties))
		for name, p := range t.ToolFunction.Parameters.Properties {
			props[name] = struct {
				Type        string   `json:"type"`
				Description string   `json:"description"`
				Enum        []string `json:"enum,omitempty"`
			}{Type: p.Type, Description: p.Description, Enum: p.Enum}
		}
		tool.Function.Parameters.Properties = props
		out = append(out, tool)
	}
	return out
}

func (o *ollamaAdapter) convertResponse(cr api.ChatResponse) adapters.ContractResponseDelta {
	delta := adapters.ContractResponseDelta{
		Done:      cr.Done,
		CreatedAt: cr.CreatedAt,
	}
	if len(cr.Message.ToolCalls) > 0 {
		for _, tc := range cr.Message.ToolCalls {
			delta.ToolCalls = append(delta.ToolCalls, adapters.ContractToolCall{
				ID:        uuid.NewString(),
				CreatedAt: cr.CreatedAt,
				ToolName:  tc.Function.Name,
				Arguments: map[string]any(tc.Function.Arguments),
			})
		}
		return delta
	}
	if cr.Message.Content != "" {
		delta.Msg = &adapters.ContractMessage{
			Role:      adapters.MsgRole(cr.Message.Role),
			Content:   cr.Message.Content,
			CreatedAt: cr.CreatedAt,
		}
	}
	return delta
}

// Process implements adapters.ContractAdapter.
func (o *ollamaAdapter) Process(ctx context.Context, input adapters.ContractInput, rc *adapters.ContractResponseChannel) adapters.ContractResponse {
	genID := uuid.NewString()
	startedAt := time.Now()

	stream := true
	req := api.ChatRequest{
		Model:    input.HandlerModel.Name,
		Messages: o.convertMsgs(input),
		Stream:   &stream,
		Options:  map[string]any{"temperature": o.cfg.Temperature},
	}
	if len(input.ToolList) > 0 {
		req.Tools = o.convertTools(input.ToolList)
	}

	runCtx := ctx
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	var handler api.ChatResponseFunc = func(cr api.ChatResponse) error {
		delta := o.convertResponse(cr)
		if delta.Msg == nil && len(delta.ToolCalls) == 0 && !delta.Done {
			return nil
		}
		*rc <- []adapters.ContractResponseDelta{delta}
		return nil
	}

	if err := o.op.Chat(runCtx, req, handler); err != nil {
		o.logger.Errorf("ollama chat failed: %v", err)
		return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Error: err}
	}
	return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Done: true}
}

func New(provider olp.OllamaProvider, cfg adapters.ContractLLMCfg, logger *Logger.Logger) adapters.ContractAdapter {
	return &ollamaAdapter{op: provider, cfg: cfg, logger: logger}
}
