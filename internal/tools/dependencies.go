package tools

import (
	"fmt"

	"github.com/unitwise/unitwise/internal/conversion"
	"github.com/unitwise/unitwise/pkg/Logger"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

// ToolDependencies holds everything tool builders need injected
type ToolDependencies struct {
	Converter *conversion.Converter
	Logger    *Logger.Logger
}

// ToolBuilder interface for tools that need dependencies
type ToolBuilder interface {
	Build(deps *ToolDependencies) (toolsystem.Tool, error)
}

// ToolFactory creates tools with dependencies injected. Builders are
// registered in order; BuildAll preserves that order so the registry
// (and therefore the instruction prompt) stays deterministic.
type ToolFactory struct {
	deps     *ToolDependencies
	order    []string
	builders map[string]ToolBuilder
}

// NewToolFactory creates a new tool factory with dependencies
func NewToolFactory(deps *ToolDependencies) *ToolFactory {
	return &ToolFactory{
		deps:     deps,
		builders: make(map[string]ToolBuilder),
	}
}

// GetDependencies returns the tool dependencies
func (tf *ToolFactory) GetDependencies() *ToolDependencies {
	return tf.deps
}

// RegisterBuilder registers a tool builder with a name
func (tf *ToolFactory) RegisterBuilder(name string, builder ToolBuilder) error {
	if _, exists := tf.builders[name]; exists {
		return fmt.Errorf("tool builder '%s' already registered", name)
	}
	tf.builders[name] = builder
	tf.order = append(tf.order, name)
	return nil
}

// BuildAll builds every registered tool, in registration order, and
// registers the results into the given registry.
func (tf *ToolFactory) BuildAll(registry toolsystem.Registry) error {
	for _, name := range tf.order {
		tool, err := tf.builders[name].Build(tf.deps)
		if err != nil {
			return fmt.Errorf("failed to build tool '%s': %w", name, err)
		}
		if err := registry.Register(tool); err != nil {
			return fmt.Errorf("failed to register tool '%s': %w", name, err)
		}
	}
	return nil
}
