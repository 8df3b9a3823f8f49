package toolsystem

import (
	"context"
	"fmt"
	"time"

	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

type ExecStatus string

const (
	SUCCESS ExecStatus = "success"
	FAILED  ExecStatus = "failed"
)

// ExecResult annotates a tool call with its outcome.
type ExecResult struct {
	Call            adapters.ContractToolCall
	Status          ExecStatus
	Response        map[string]any
	RunningDuration time.Duration
}

type Executor interface {
	// Execute runs the named tool synchronously.
	Execute(ctx context.Context, reg Registry, call adapters.ContractToolCall) (*ExecResult, error)
	// ExecuteAsync has identical semantics to Execute. Tools here do no
	// blocking I/O, so it runs on the caller's goroutine; it exists for
	// interface parity with orchestrators that expect an async entry.
	ExecuteAsync(ctx context.Context, reg Registry, call adapters.ContractToolCall) (*ExecResult, error)
}

type executor struct{}

// Execute implements Executor.
func (e *executor) Execute(ctx context.Context, reg Registry, call adapters.ContractToolCall) (*ExecResult, error) {
	tool, ok := reg.Get(call.ToolName)
	if !ok {
		return nil, fmt.Errorf("tool %s not found", call.ToolName)
	}

	startTime := time.Now()
	res, toolErr := tool.Handler(ctx, call.Arguments)
	runningDuration := time.Since(startTime)

	if toolErr != nil {
		return &ExecResult{
			Call:            call,
			Status:          FAILED,
			Response:        map[string]any{"error": toolErr.Error()},
			RunningDuration: runningDuration,
		}, toolErr
	}

	return &ExecResult{
		Call:            call,
		Status:          SUCCESS,
		Response:        res,
		RunningDuration: runningDuration,
	}, nil
}

// ExecuteAsync implements Executor.
func (e *executor) ExecuteAsync(ctx context.Context, reg Registry, call adapters.ContractToolCall) (*ExecResult, error) {
	return e.Execute(ctx, reg, call)
}

func NewExecutor() Executor {
	return &executor{}
}
