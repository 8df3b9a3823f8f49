package agent

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/unitwise/unitwise/pkg/Logger"
)

const (
	stateIdle        = "idle"
	stateModelCall   = "model_call"
	stateToolCall    = "tool_call"
	stateStateUpdate = "state_update"
	stateFinal       = "final"

	eventRequest        = "request"
	eventToolsRequested = "tools_requested"
	eventToolsDone      = "tools_done"
	eventContinue       = "continue"
	eventRespond        = "respond"
)

// turnMachine enforces the legal ordering of one turn: a model call either
// requests tools (loop through tool_call and state_update back to another
// model call) or ends the turn.
type turnMachine struct {
	fsm    *fsm.FSM
	logger *Logger.Logger
}

func newTurnMachine(logger *Logger.Logger) *turnMachine {
	return &turnMachine{
		fsm: fsm.NewFSM(
			stateIdle,
			fsm.Events{
				{Name: eventRequest, Src: []string{stateIdle}, Dst: stateModelCall},
				{Name: eventToolsRequested, Src: []string{stateModelCall}, Dst: stateToolCall},
				{Name: eventToolsDone, Src: []string{stateToolCall}, Dst: stateStateUpdate},
				{Name: eventContinue, Src: []string{stateStateUpdate}, Dst: stateModelCall},
				{Name: eventRespond, Src: []string{stateModelCall, stateStateUpdate}, Dst: stateFinal},
			},
			fsm.Callbacks{},
		),
		logger: logger,
	}
}

func (tm *turnMachine) fire(ctx context.Context, event string) {
	if err := tm.fsm.Event(ctx, event); err != nil {
		tm.logger.Warnf("turn fsm: event %s from %s rejected: %v", event, tm.fsm.Current(), err)
	}
}

func (tm *turnMachine) current() string {
	return tm.fsm.Current()
}
