package adapters

import (
	"time"
)

type MsgRole string

const (
	USER      MsgRole = "user"
	ASSISTANT MsgRole = "assistant"
	SYSTEM    MsgRole = "system"
	TOOL      MsgRole = "tool"
)

type ContractMessage struct {
	Role      MsgRole
	Content   string
	CreatedAt time.Time
	// Set on assistant messages that requested tool runs, so providers
	// can replay history in the shape their APIs expect.
	ToolCalls []ContractToolCall
	// Set on tool result messages.
	ToolCallID string
	ToolName   string
}

type ContractToolProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

type ContractToolIOType struct {
	Type       string                          `json:"type"` // "object" default
	Properties map[string]ContractToolProperty `json:"properties"`
}

type ContractToolFn struct {
	Parameters    ContractToolIOType `json:"parameters"`
	RequiredProps []string           `json:"required"`
}

type ContractTool struct {
	Name         string
	Type         string // function default
	Description  string
	ToolFunction ContractToolFn
}

// ParametersSchema renders the tool's argument schema as the generic
// JSON-schema map most provider SDKs accept.
func (t ContractTool) ParametersSchema() map[string]any {
	props := make(map[string]any, len(t.ToolFunction.Parameters.Properties))
	for name, p := range t.ToolFunction.Parameters.Properties {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		props[name] = prop
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   t.ToolFunction.RequiredProps,
	}
}

type ContractSelectedModel struct {
	Provider string
	Name     string
}

type ContractInput struct {
	ID           string
	ToolList     []ContractTool
	SystemPrompt string
	Msgs         []ContractMessage
	HandlerModel ContractSelectedModel
}

type ContractToolCall struct {
	ID        string
	CreatedAt time.Time
	ToolName  string
	Arguments map[string]any // actual values, not type definitions
}

// response is by default a stream of delta batches
type ContractResponseDelta struct {
	Msg       *ContractMessage
	ToolCalls []ContractToolCall
	Error     error
	Index     uint
	Done      bool
	CreatedAt time.Time
}

type ContractResponseChannel chan []ContractResponseDelta
