package prompts

import (
	"time"

	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

type PromptDefinition struct {
	Content string
	Version float32
}

type SYS_PROMPT struct {
	Intent         string
	CurrentVersion float32
	Items          map[float32]PromptDefinition // version-content
}

func (sp *SYS_PROMPT) GetVersion(version float32) (PromptDefinition, bool) {
	i, ok := sp.Items[version]
	return i, ok
}

func (sp *SYS_PROMPT) GetCurrentPrompt() PromptDefinition {
	return sp.Items[sp.CurrentVersion]
}

func (pd PromptDefinition) ToContractMessage() adapters.ContractMessage {
	return adapters.ContractMessage{
		Role:      adapters.SYSTEM,
		Content:   pd.Content,
		CreatedAt: time.Now(),
	}
}
