package toolsystem

import "context"

type JSONType string

const (
	JSONString JSONType = "string"
	JSONNumber JSONType = "number"
	JSONObject JSONType = "object"
	JSONArray  JSONType = "array"
	JSONBool   JSONType = "boolean"
)

// ToolHandler executes one tool call with already-decoded arguments.
// Handlers are side-effect free computations; failures are returned,
// never panicked.
type ToolHandler func(ctx context.Context, args map[string]any) (map[string]any, error)

// ToolDescriptor is the static name+description pair shown to the model
// when the instruction prompt is assembled.
type ToolDescriptor struct {
	Name        string
	Description string
}
