package prompts

import (
	"fmt"
	"strings"

	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

const toolsPlaceholder = "{tools}"

var (
	AGENT_PROMPT = SYS_PROMPT{
		Intent:         "Conversion",
		CurrentVersion: 0.1,
		Items: map[float32]PromptDefinition{
			0.1: {
				Version: 0.1,
				Content: `You are a helpful assistant that has access to the following tools:
{tools}
You are to use the tools to answer the user's question OR convert text from one unit to another.`,
			},
		},
	}
)

// RenderAgentPrompt fills the tool listing into the current agent prompt.
// Each tool renders as a "name: description" line in registry order.
func RenderAgentPrompt(descriptors []toolsystem.ToolDescriptor) PromptDefinition {
	lines := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		lines = append(lines, fmt.Sprintf("%s: %s", d.Name, d.Description))
	}
	pd := AGENT_PROMPT.GetCurrentPrompt()
	pd.Content = strings.ReplaceAll(pd.Content, toolsPlaceholder, strings.Join(lines, "\n"))
	return pd
}
