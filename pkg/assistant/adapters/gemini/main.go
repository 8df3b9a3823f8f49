package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
	gmp "github.com/unitwise/unitwise/pkg/assistant/providers/gemini"
)

const ProviderName = "google"

type geminiAdapter struct {
	gp     *gmp.GeminiProvider
	cfg    adapters.ContractLLMCfg
	logger *Logger.Logger
}

// Provider implements adapters.ContractAdapter.
func (g *geminiAdapter) Provider() string { return ProviderName }

// convertHistory maps contract messages onto genai content. Gemini has no
// system role in history; the system prompt goes on the model handle. The
// last message is returned separately since SendMessage takes it as parts.
func (g *geminiAdapter) convertHistory(msgs []adapters.ContractMessage) ([]*genai.Content, []genai.Part) {
	var history []*genai.Content
	for _, msg := range msgs {
		switch msg.Role {
		case adapters.ASSISTANT:
			parts := make([]genai.Part, 0, 1+len(msg.ToolCalls))
			if msg.Content != "" {
				parts = append(parts, genai.Text(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: tc.ToolName, Args: tc.Arguments})
			}
			history = append(history, &genai.Content{Role: "model", Parts: parts})
		case adapters.TOOL:
			history = append(history, &genai.Content{Role: "function", Parts: []genai.Part{
				genai.FunctionResponse{
					Name:     msg.ToolName,
					Response: map[string]any{"content": msg.Content},
				},
			}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(msg.Content)}})
		}
	}
	if len(history) == 0 {
		return nil, nil
	}
	last := history[len(history)-1]
	return history[:len(history)-1], last.Parts
}

func (g *geminiAdapter) convertTools(tools []adapters.ContractTool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	geminiTools := make([]*genai.Tool, len(tools))
	for i, ct := range tools {
		properties := make(map[string]*genai.Schema)
		for propName, propDef := range ct.ToolFunction.Parameters.Properties {
			var schemaType genai.Type
			switch propDef.Type {
			case "string":
				schemaType = genai.TypeString
			case "integer":
				schemaType = genai.TypeInteger
			case "number":
				schemaType = genai.TypeNumber
			case "boolean":
				schemaType = genai.TypeBoolean
			default:
				schemaType = genai.TypeString
			}
			properties[propName] = &genai.Schema{
				Type:        schemaType,
				Description: propDef.Description,
				Enum:        propDef.Enum,
			}
		}
		geminiTools[i] = &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        ct.Name,
				Description: ct.Description,
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: properties,
					Required:   ct.ToolFunction.RequiredProps,
				},
			}},
		}
	}
	return geminiTools
}

// Process implements adapters.ContractAdapter.
func (g *geminiAdapter) Process(ctx context.Context, input adapters.ContractInput, rc *adapters.ContractResponseChannel) adapters.ContractResponse {
	genID := uuid.NewString()
	startedAt := time.Now()

	model := g.gp.GetModel(input.HandlerModel.Name)
	model.Tools = g.convertTools(input.ToolList)
	temp := float32(g.cfg.Temperature)
	model.Temperature = &temp
	if g.cfg.MaxTokens > 0 {
		maxTokens := int32(g.cfg.MaxTokens)
		model.MaxOutputTokens = &maxTokens
	}
	if input.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(input.SystemPrompt)}}
	}

	history, lastParts := g.convertHistory(input.Msgs)
	if len(lastParts) == 0 {
		return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Error: fmt.Errorf("gemini adapter needs at least one message")}
	}

	runCtx := ctx
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	cs := model.StartChat()
	cs.History = history
	resp, err := cs.SendMessage(runCtx, lastParts...)
	if err != nil {
		g.logger.Errorf("gemini chat failed: %v", err)
		return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Error: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Error: fmt.Errorf("gemini returned no candidates")}
	}

	now := time.Now()
	var textMsg string
	var toolCalls []adapters.ContractToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			textMsg += string(txt)
		}
		if fc, ok := part.(genai.FunctionCall); ok {
			toolCalls = append(toolCalls, adapters.ContractToolCall{
				ID:        uuid.NewString(),
				CreatedAt: now,
				ToolName:  fc.Name,
				Arguments: fc.Args,
			})
		}
	}

	deltas := make([]adapters.ContractResponseDelta, 0, 2)
	if len(toolCalls) > 0 {
		deltas = append(deltas, adapters.ContractResponseDelta{ToolCalls: toolCalls, CreatedAt: now})
	} else if textMsg != "" {
		deltas = append(deltas, adapters.ContractResponseDelta{
			Msg:       &adapters.ContractMessage{Role: adapters.ASSISTANT, Content: textMsg, CreatedAt: now},
			CreatedAt: now,
		})
	}
	deltas = append(deltas, adapters.ContractResponseDelta{Done: true, CreatedAt: now})
	*rc <- deltas

	return adapters.ContractResponse{ID: genID, StartedAt: startedAt, Done: true}
}

func New(provider *gmp.GeminiProvider, cfg adapters.ContractLLMCfg, logger *Logger.Logger) adapters.ContractAdapter {
	return &geminiAdapter{gp: provider, cfg: cfg, logger: logger}
}
