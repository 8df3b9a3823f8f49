package adapters

import (
	"context"
	"time"
)

// ContractLLMCfg carries the externally configured generation knobs.
// The agent core never interprets these; they are handed to the
// provider client as-is.
type ContractLLMCfg struct {
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

type ContractResponse struct {
	ID        string
	StartedAt time.Time
	Error     error
	Done      bool
}

// ContractAdapter is one provider client. Process pushes delta batches
// onto the response channel and returns when the provider is done; the
// caller owns closing the channel.
type ContractAdapter interface {
	Provider() string

	Process(
		ctx context.Context,
		input ContractInput,
		responseChannel *ContractResponseChannel,
	) ContractResponse
}
