package toolsystem

import (
	"fmt"
	"sync"

	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

type Tool struct {
	Spec    adapters.ContractTool
	Handler ToolHandler
	Version string   // for registry management
	Tags    []string // for categorization
}

// Registry is the fixed set of tools exposed to the agent. Registration
// happens at startup; afterwards the registry is read-only and every
// read preserves registration order.
type Registry interface {
	Register(t Tool) error
	Get(name string) (Tool, bool)
	List() []Tool
	Descriptors() []ToolDescriptor
	// Tools in contract format for the model adapters
	GetContractTools() []adapters.ContractTool
}

type memoryRegistry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// Register implements Registry.
func (m *memoryRegistry) Register(t Tool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tools[t.Spec.Name]; exists {
		return fmt.Errorf("tool %s already registered", t.Spec.Name)
	}
	m.tools[t.Spec.Name] = t
	m.order = append(m.order, t.Spec.Name)
	return nil
}

// Get implements Registry.
func (m *memoryRegistry) Get(name string) (Tool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tool, exist := m.tools[name]
	return tool, exist
}

// List implements Registry.
func (m *memoryRegistry) List() []Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Tool, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.tools[name])
	}
	return out
}

// Descriptors implements Registry.
func (m *memoryRegistry) Descriptors() []ToolDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ToolDescriptor, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, ToolDescriptor{
			Name:        name,
			Description: m.tools[name].Spec.Description,
		})
	}
	return out
}

// GetContractTools implements Registry.
func (m *memoryRegistry) GetContractTools() []adapters.ContractTool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]adapters.ContractTool, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.tools[name].Spec)
	}
	return out
}

func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		tools: make(map[string]Tool),
	}
}
