package router

import "github.com/unitwise/unitwise/pkg/assistant/adapters"

type AdapterPack struct {
	Adapter      adapters.ContractAdapter
	Provider     string
	DefaultModel adapters.ContractSelectedModel
}

type Mux struct {
	RouterPolicy RoutePolicy
	AdapterMap   map[string]AdapterPack
	// Extra attempts on the selected model before the fallback is tried.
	MaxRetries int
}

type RoutePolicy interface {
	// Select picks the model to handle this input.
	Select(input adapters.ContractInput) adapters.ContractSelectedModel
	// Fallback picks the model to retry with after a primary failure.
	// A nil return means no fallback is configured.
	Fallback(input adapters.ContractInput) *adapters.ContractSelectedModel
}
