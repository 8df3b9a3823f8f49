package app

import (
	"fmt"

	"github.com/unitwise/unitwise/internal/config"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
	"github.com/unitwise/unitwise/pkg/assistant/adapters/gemini"
	"github.com/unitwise/unitwise/pkg/assistant/adapters/ollama"
	"github.com/unitwise/unitwise/pkg/assistant/adapters/openai"
	gmp "github.com/unitwise/unitwise/pkg/assistant/providers/gemini"
	olp "github.com/unitwise/unitwise/pkg/assistant/providers/ollama"
	"github.com/unitwise/unitwise/pkg/assistant/router"
)

// LLMRouterFactory builds the model mux from configured providers
type LLMRouterFactory struct {
	cfg    *config.Settings
	logger *Logger.Logger
}

// NewLLMRouterFactory creates a new LLM router factory
func NewLLMRouterFactory(cfg *config.Settings, logger *Logger.Logger) *LLMRouterFactory {
	return &LLMRouterFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateRouter builds an adapter pack per provider with credentials in
// config and composes them behind a configured routing policy. At least
// one provider must be configured.
func (f *LLMRouterFactory) CreateRouter() (*router.Mux, error) {
	llmCfg := adapters.ContractLLMCfg{
		Temperature: f.cfg.LLM.Temperature,
		MaxTokens:   f.cfg.LLM.MaxTokens,
		Timeout:     f.cfg.LLM.Timeout(),
	}

	var packs []router.AdapterPack

	if f.cfg.AssistantKeys.OpenAiApiKey != "" {
		packs = append(packs, router.AdapterPack{
			Adapter:  openai.New(f.cfg.AssistantKeys.OpenAiApiKey, llmCfg, f.logger),
			Provider: openai.ProviderName,
			DefaultModel: adapters.ContractSelectedModel{
				Provider: openai.ProviderName,
				Name:     f.cfg.LLM.Model,
			},
		})
	}

	if f.cfg.AssistantKeys.GeminiApiKey != "" {
		provider, err := gmp.New(f.cfg.AssistantKeys.GeminiApiKey, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini provider: %w", err)
		}
		packs = append(packs, router.AdapterPack{
			Adapter:  gemini.New(provider, llmCfg, f.logger),
			Provider: gemini.ProviderName,
			DefaultModel: adapters.ContractSelectedModel{
				Provider: gemini.ProviderName,
				Name:     f.cfg.LLM.Model,
			},
		})
	}

	if len(f.cfg.AssistantKeys.OllamaURLs) > 0 {
		provider := olp.New(f.cfg.AssistantKeys.OllamaURLs, f.logger)
		packs = append(packs, router.AdapterPack{
			Adapter:  ollama.New(provider, llmCfg, f.logger),
			Provider: ollama.ProviderName,
			DefaultModel: adapters.ContractSelectedModel{
				Provider: ollama.ProviderName,
				Name:     f.cfg.LLM.Model,
			},
		})
	}

	if len(packs) == 0 {
		return nil, fmt.Errorf("no LLM adapters configured")
	}

	policy := &router.ConfiguredRP{
		Primary: adapters.ContractSelectedModel{
			Provider: f.cfg.LLM.Provider,
			Name:     f.cfg.LLM.Model,
		},
	}
	if f.cfg.LLM.FallbackModel != "" {
		policy.FallbackModel = &adapters.ContractSelectedModel{
			Provider: f.cfg.LLM.Provider,
			Name:     f.cfg.LLM.FallbackModel,
		}
	}

	mux := router.New(policy, packs, f.logger)
	mux.MaxRetries = f.cfg.LLM.MaxRetries
	f.logger.Infof("LLM router created with %d adapter(s), primary %s/%s",
		len(packs), f.cfg.LLM.Provider, f.cfg.LLM.Model)

	return &mux, nil
}
