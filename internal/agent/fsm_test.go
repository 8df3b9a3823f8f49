package agent

import (
	"context"
	"testing"

	"github.com/unitwise/unitwise/pkg/Logger"
)

func TestTurnMachineHappyPath(t *testing.T) {
	tm := newTurnMachine(Logger.New(true))
	ctx := context.Background()

	tm.fire(ctx, eventRequest)
	tm.fire(ctx, eventToolsRequested)
	tm.fire(ctx, eventToolsDone)
	tm.fire(ctx, eventContinue)
	tm.fire(ctx, eventRespond)

	if tm.current() != stateFinal {
		t.Errorf("ended in %q, want %q", tm.current(), stateFinal)
	}
}

func TestTurnMachineRejectsIllegalOrder(t *testing.T) {
	tm := newTurnMachine(Logger.New(true))
	ctx := context.Background()

	// tool results cannot arrive before a model call
	tm.fire(ctx, eventToolsDone)
	if tm.current() != stateIdle {
		t.Errorf("illegal event moved state to %q", tm.current())
	}
}
