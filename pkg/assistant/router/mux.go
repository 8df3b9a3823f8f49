package router

import (
	"context"
	"fmt"

	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

// ConfiguredRP routes every input to the configured primary model and
// retries once on the fallback model.
type ConfiguredRP struct {
	Primary       adapters.ContractSelectedModel
	FallbackModel *adapters.ContractSelectedModel
}

func (p *ConfiguredRP) Select(input adapters.ContractInput) adapters.ContractSelectedModel {
	return p.Primary
}

func (p *ConfiguredRP) Fallback(input adapters.ContractInput) *adapters.ContractSelectedModel {
	return p.FallbackModel
}

// New composes adapters into a multiplexer. Each adapter serves one
// provider; the policy decides which provider+model handles a request.
func New(policy RoutePolicy, packs []AdapterPack, logger *Logger.Logger) Mux {
	adm := make(map[string]AdapterPack, len(packs))
	for _, pack := range packs {
		adm[pack.Provider] = pack
		logger.Infof("llm mux: registered provider %s (default model %s)", pack.Provider, pack.DefaultModel.Name)
	}
	return Mux{
		RouterPolicy: policy,
		AdapterMap:   adm,
	}
}

// Stream routes the input to an adapter and relays delta batches onto rc.
// The channel is closed before returning, error or not, so readers can
// range over it.
func (m *Mux) Stream(
	ctx context.Context,
	input adapters.ContractInput,
	rc *adapters.ContractResponseChannel,
) error {
	defer close(*rc)

	sm := m.RouterPolicy.Select(input)
	var err error
	for attempt := 0; attempt <= m.MaxRetries; attempt++ {
		out, derr := m.dispatch(ctx, input, sm, rc)
		err = derr
		if err == nil {
			err = out.Error
		}
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
	}

	fb := m.RouterPolicy.Fallback(input)
	if fb == nil {
		return err
	}
	fbOut, fbErr := m.dispatch(ctx, input, *fb, rc)
	if fbErr != nil {
		return fmt.Errorf("primary model %s failed (%v), fallback %s failed: %w", sm.Name, err, fb.Name, fbErr)
	}
	if fbOut.Error != nil {
		return fmt.Errorf("primary model %s failed (%v), fallback %s failed: %w", sm.Name, err, fb.Name, fbOut.Error)
	}
	return nil
}

func (m *Mux) dispatch(
	ctx context.Context,
	input adapters.ContractInput,
	model adapters.ContractSelectedModel,
	rc *adapters.ContractResponseChannel,
) (adapters.ContractResponse, error) {
	pack, ok := m.AdapterMap[model.Provider]
	if !ok {
		return adapters.ContractResponse{}, fmt.Errorf("no adapter registered for provider %s", model.Provider)
	}
	input.HandlerModel = model
	if input.HandlerModel.Name == "" {
		input.HandlerModel.Name = pack.DefaultModel.Name
	}
	return pack.Adapter.Process(ctx, input, rc), nil
}
