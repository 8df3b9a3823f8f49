package agent

import (
	"time"
)

// ToolCallRecord is one tool invocation the model requested during a turn.
type ToolCallRecord struct {
	Tool      string         `json:"tool"`
	Args      map[string]any `json:"args"`
	CallID    string         `json:"call_id"`
	Timestamp time.Time      `json:"timestamp"`
}

// AgentState accumulates across an entire conversation: every turn's tool
// activity, errors and results land here. JSON tags match the shape the
// HTTP layer reports to clients.
type AgentState struct {
	ToolCallsMade         []ToolCallRecord `json:"tool_calls_made"`
	ToolCallCount         int              `json:"tool_call_count"`
	Errors                []string         `json:"errors"`
	HasErrors             bool             `json:"has_errors"`
	CurrentTool           string           `json:"current_tool"`
	LastConversionResult  map[string]any   `json:"last_conversion_result"`
	TurnCount             int              `json:"turn_count"`
	ConversationStartedAt time.Time        `json:"conversation_started_at"`
	StructuredResponse    map[string]any   `json:"structured_response"`
	Metadata              map[string]any   `json:"metadata"`
}

func NewAgentState() *AgentState {
	return &AgentState{
		ToolCallsMade:         make([]ToolCallRecord, 0),
		Errors:                make([]string, 0),
		ConversationStartedAt: time.Now(),
		Metadata:              make(map[string]any),
	}
}

// StateDelta is one step's contribution to the conversation state.
type StateDelta struct {
	ToolCalls  []ToolCallRecord
	Errors     []string
	Result     map[string]any
	Structured map[string]any
	Metadata   map[string]any
}

// Apply folds a delta into the state. Tool call count grows by the calls
// in the delta; CurrentTool follows the most recent call.
func (s *AgentState) Apply(d StateDelta) {
	if len(d.ToolCalls) > 0 {
		s.ToolCallsMade = append(s.ToolCallsMade, d.ToolCalls...)
		s.ToolCallCount += len(d.ToolCalls)
		s.CurrentTool = d.ToolCalls[len(d.ToolCalls)-1].Tool
	}
	if len(d.Errors) > 0 {
		s.Errors = append(s.Errors, d.Errors...)
		s.HasErrors = true
	}
	if d.Result != nil {
		s.LastConversionResult = d.Result
	}
	if d.Structured != nil {
		s.StructuredResponse = d.Structured
	}
	for k, v := range d.Metadata {
		if s.Metadata == nil {
			s.Metadata = make(map[string]any)
		}
		s.Metadata[k] = v
	}
}

func (s *AgentState) BumpTurn() {
	s.TurnCount++
}

// Snapshot returns a copy safe to hand to callers while the turn keeps
// mutating the live state. Nested maps are shared; treat them read-only.
func (s *AgentState) Snapshot() AgentState {
	out := *s
	out.ToolCallsMade = make([]ToolCallRecord, len(s.ToolCallsMade))
	copy(out.ToolCallsMade, s.ToolCallsMade)
	out.Errors = make([]string, len(s.Errors))
	copy(out.Errors, s.Errors)
	return out
}
