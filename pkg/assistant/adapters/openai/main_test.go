package openai

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

func testAdapter(t *testing.T) *openaiAdapter {
	t.Helper()
	a, ok := New("test-key", adapters.ContractLLMCfg{}, Logger.New(true)).(*openaiAdapter)
	if !ok {
		t.Fatal("New did not return the openai adapter")
	}
	return a
}

func TestConvertToolsMapsDescriptors(t *testing.T) {
	a := testAdapter(t)
	tools := []adapters.ContractTool{
		{
			Name:        "feet_to_meters",
			Description: "Convert feet to meters",
			ToolFunction: adapters.ContractToolFn{
				Parameters: adapters.ContractToolIOType{
					Type: "object",
					Properties: map[string]adapters.ContractToolProperty{
						"feet": {Type: "number", Description: "length in feet"},
					},
				},
				RequiredProps: []string{},
			},
		},
	}

	out := a.convertTools(tools)
	if len(out) != 1 {
		t.Fatalf("expected 1 tool param, got %d", len(out))
	}
	if out[0].Function.Name != "feet_to_meters" {
		t.Errorf("unexpected tool name %q", out[0].Function.Name)
	}
	if out[0].Function.Description.Value != "Convert feet to meters" {
		t.Errorf("unexpected description %q", out[0].Function.Description.Value)
	}
	props, ok := out[0].Function.Parameters["properties"].(map[string]any)
	if !ok {
		t.Fatalf("parameters schema missing properties: %#v", out[0].Function.Parameters)
	}
	if _, ok := props["feet"]; !ok {
		t.Errorf("feet property missing from schema: %#v", props)
	}
}

func TestAssistantToolCallMsgReplaysCallIDs(t *testing.T) {
	msg := adapters.ContractMessage{
		Role:      adapters.ASSISTANT,
		CreatedAt: time.Now(),
		ToolCalls: []adapters.ContractToolCall{
			{ID: "call-1", ToolName: "feet_to_meters", Arguments: map[string]any{"feet": 10.0}},
		},
	}

	union := assistantToolCallMsg(msg)
	asst := union.OfAssistant
	if asst == nil {
		t.Fatal("expected an assistant message param")
	}
	if len(asst.ToolCalls) != 1 {
		t.Fatalf("expected 1 replayed tool call, got %d", len(asst.ToolCalls))
	}
	tc := asst.ToolCalls[0]
	if tc.ID != "call-1" {
		t.Errorf("tool call ID not preserved: %q", tc.ID)
	}
	if tc.Function.Name != "feet_to_meters" {
		t.Errorf("unexpected function name %q", tc.Function.Name)
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
		t.Fatalf("arguments are not valid JSON: %v", err)
	}
	if args["feet"] != 10.0 {
		t.Errorf("unexpected arguments %#v", args)
	}
}

func TestConvertMsgsRoles(t *testing.T) {
	a := testAdapter(t)
	input := adapters.ContractInput{
		SystemPrompt: "instructions",
		Msgs: []adapters.ContractMessage{
			{Role: adapters.USER, Content: "convert 10 feet"},
			{Role: adapters.ASSISTANT, Content: "", ToolCalls: []adapters.ContractToolCall{{ID: "c1", ToolName: "feet_to_meters"}}},
			{Role: adapters.TOOL, Content: "{}", ToolCallID: "c1", ToolName: "feet_to_meters"},
			{Role: adapters.ASSISTANT, Content: "done"},
		},
	}

	out := a.convertMsgs(input)
	if len(out) != 5 {
		t.Fatalf("expected system prompt plus 4 messages, got %d", len(out))
	}
	if out[0].OfSystem == nil {
		t.Error("first message should carry the system prompt")
	}
	if out[1].OfUser == nil {
		t.Error("second message should be the user turn")
	}
	if out[2].OfAssistant == nil || len(out[2].OfAssistant.ToolCalls) != 1 {
		t.Error("third message should replay the assistant tool call")
	}
	if out[3].OfTool == nil {
		t.Error("fourth message should be the tool result")
	}
	if out[4].OfAssistant == nil {
		t.Error("fifth message should be the plain assistant reply")
	}
}
