package ollama

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
	"github.com/unitwise/unitwise/pkg/Logger"
)

// OllamaProvider wraps a farm of ollama servers so the adapter can keep
// talking when one host is offline.
type OllamaProvider struct {
	farm   *ollamafarm.Farm
	logger *Logger.Logger
}

func New(serverURLs []string, logger *Logger.Logger) OllamaProvider {
	farm := ollamafarm.New()
	for _, serverURL := range serverURLs {
		if err := farm.RegisterURL(serverURL, nil); err != nil {
			logger.Warnf("ollama server %s not registered: %v", serverURL, err)
		}
	}
	return OllamaProvider{farm: farm, logger: logger}
}

func (o *OllamaProvider) Chat(
	ctx context.Context,
	req api.ChatRequest,
	fn api.ChatResponseFunc,
) error {
	// pick first available client
	ollama := o.farm.First(&ollamafarm.Where{Offline: false})
	if ollama != nil {
		return ollama.Client().Chat(ctx, &req, fn)
	}
	return fmt.Errorf("no online ollama server for model %v", req.Model)
}
