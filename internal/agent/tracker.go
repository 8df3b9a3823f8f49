package agent

import (
	"sync"
	"time"

	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

// Step is one model round: the assistant output plus whatever tool
// activity it triggered.
type Step struct {
	ID        string
	Assistant *adapters.ContractMessage
	ToolCalls []ToolCallRecord
	Errors    []string
	Result    map[string]any
	At        time.Time
}

// Tracker owns one conversation's AgentState and its step history.
// Safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	state      *AgentState
	steps      []Step
	lastStepID string
	logger     *Logger.Logger
}

func NewTracker(logger *Logger.Logger) *Tracker {
	return &Tracker{
		state:  NewAgentState(),
		steps:  make([]Step, 0),
		logger: logger,
	}
}

// TrackStep records a step and folds it into the state. Re-submitting the
// step last recorded is a no-op, so retried rounds never double-count.
func (t *Tracker) TrackStep(step Step) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if step.ID != "" && step.ID == t.lastStepID {
		t.logger.Debugf("step %s already tracked, skipping", step.ID)
		return false
	}
	if step.At.IsZero() {
		step.At = time.Now()
	}

	t.steps = append(t.steps, step)
	t.lastStepID = step.ID
	t.state.Apply(StateDelta{
		ToolCalls: step.ToolCalls,
		Errors:    step.Errors,
		Result:    step.Result,
	})
	return true
}

// RecordError notes a failure outside step accounting, e.g. from the tool
// error interceptor.
func (t *Tracker) RecordError(desc string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Apply(StateDelta{Errors: []string{desc}})
}

func (t *Tracker) SetStructuredResponse(sr map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Apply(StateDelta{Structured: sr})
}

func (t *Tracker) BumpTurn() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.BumpTurn()
}

func (t *Tracker) State() AgentState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Snapshot()
}

func (t *Tracker) Steps() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}
